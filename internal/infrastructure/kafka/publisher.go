package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher は予約通知を Kafka トピックへ送る
// キーは予約IDなので同じ予約のイベントは同じパーティションに並ぶ
type Publisher struct {
	w messageWriter
}

// NewPublisher は新しい Publisher を作成する
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}}
}

// Publish は予約イベントを JSON で送信する
func (p *Publisher) Publish(ctx context.Context, ev booking.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("通知のエンコードに失敗: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.BookingID, 10)),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(uuid.NewString())},
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("通知の送信に失敗: %w", err)
	}
	return nil
}

// Close は Writer を閉じる
func (p *Publisher) Close() error {
	return p.w.Close()
}

var _ booking.Publisher = (*Publisher)(nil)
