package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	b := &booking.Booking{ID: 12, Requester: "Eve", SeatsBooked: 1, Status: booking.StatusCancelled}
	ev := booking.NewEvent(booking.EventCancelled, b)

	t.Run("予約IDをキーにして送る", func(t *testing.T) {
		w := &fakeWriter{}
		p := &Publisher{w: w}

		require.NoError(t, p.Publish(context.Background(), ev))

		require.Len(t, w.msgs, 1)
		msg := w.msgs[0]
		assert.Equal(t, "12", string(msg.Key))
		assert.Equal(t, "booking.cancelled", header(msg, "event-type"))
		assert.NotEmpty(t, header(msg, "message-id"))

		var got booking.Event
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, "Eve", got.Requester)
		assert.Equal(t, booking.StatusCancelled, got.Status)
	})

	t.Run("送信失敗はエラーを返す", func(t *testing.T) {
		p := &Publisher{w: &fakeWriter{err: assert.AnError}}

		assert.ErrorIs(t, p.Publish(context.Background(), ev), assert.AnError)
	})
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "booking-events")

	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "booking-events", w.Topic)
	assert.NoError(t, p.Close())
}
