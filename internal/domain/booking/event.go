package booking

import (
	"context"
	"time"
)

// EventType は予約通知の種類
type EventType string

const (
	EventConfirmed  EventType = "booking.confirmed"
	EventWaitlisted EventType = "booking.waitlisted"
	EventCancelled  EventType = "booking.cancelled"
	EventPromoted   EventType = "booking.promoted"
)

// Event は予約状態の変化を外部へ通知するメッセージ
type Event struct {
	Type        EventType `json:"type"`
	BookingID   int64     `json:"booking_id"`
	Requester   string    `json:"requester"`
	SeatsBooked int       `json:"seats_booked"`
	SeatIDs     []int     `json:"seat_ids,omitempty"`
	Status      Status    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewEvent は予約から通知メッセージを作成する
func NewEvent(t EventType, b *Booking) Event {
	return Event{
		Type:        t,
		BookingID:   b.ID,
		Requester:   b.Requester,
		SeatsBooked: b.SeatsBooked,
		SeatIDs:     b.SeatIDs,
		Status:      b.Status,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher は予約通知の送信先
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
