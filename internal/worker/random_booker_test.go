package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/memory"
)

// recordingBooker は受け取った予約リクエストを記録する
type recordingBooker struct {
	mu     sync.Mutex
	inputs []application.BookInput
	err    error
	block  chan struct{}
}

func (b *recordingBooker) Book(_ context.Context, in application.BookInput) (*booking.Booking, error) {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs = append(b.inputs, in)
	if b.err != nil {
		return nil, b.err
	}
	return &booking.Booking{ID: int64(len(b.inputs)), Requester: in.Requester, SeatsBooked: in.Seats, Status: booking.StatusConfirmed}, nil
}

func (b *recordingBooker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inputs)
}

func TestRandomBooker_Run(t *testing.T) {
	t.Run("指定回数だけ1〜3席をランダムに予約する", func(t *testing.T) {
		booker := &recordingBooker{}
		r := NewRandomBooker(booker, 5)
		r.maxPause = 0

		accepted := r.Run(context.Background())

		assert.Equal(t, 5, accepted)
		require.Len(t, booker.inputs, 5)
		for _, in := range booker.inputs {
			assert.Contains(t, DefaultRequesters, in.Requester)
			assert.GreaterOrEqual(t, in.Seats, 1)
			assert.LessOrEqual(t, in.Seats, 3)
		}
	})

	t.Run("乱数に従って予約者と座席数を決める", func(t *testing.T) {
		booker := &recordingBooker{}
		r := NewRandomBooker(booker, 2)
		r.maxPause = 0
		seq := []int{4, 2, 0, 0}
		r.intN = func(int) int {
			v := seq[0]
			seq = seq[1:]
			return v
		}

		r.Run(context.Background())

		assert.Equal(t, []application.BookInput{
			{Requester: "Eve", Seats: 3},
			{Requester: "Alice", Seats: 1},
		}, booker.inputs)
	})

	t.Run("失敗した予約は件数に含めない", func(t *testing.T) {
		booker := &recordingBooker{err: assert.AnError}
		r := NewRandomBooker(booker, 3)
		r.maxPause = 0

		assert.Equal(t, 0, r.Run(context.Background()))
		assert.Equal(t, 3, booker.count())
	})

	t.Run("コンテキストキャンセルで途中終了する", func(t *testing.T) {
		booker := &recordingBooker{}
		r := NewRandomBooker(booker, 5)
		r.maxPause = time.Hour
		r.intN = func(n int) int { return n - 1 }
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		r.Run(ctx)

		assert.Equal(t, 1, booker.count())
	})
}

func TestRandomBooker_Trigger(t *testing.T) {
	booker := &recordingBooker{block: make(chan struct{})}
	r := NewRandomBooker(booker, 1)
	r.maxPause = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	assert.True(t, r.Trigger())
	assert.Eventually(t, r.running.Load, time.Second, 5*time.Millisecond)
	// 実行中は受け付けない
	assert.False(t, r.Trigger())

	close(booker.block)
	assert.Eventually(t, func() bool { return !r.running.Load() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, booker.count())

	r.Stop()
}

func TestRandomBooker_WithBookingSystem(t *testing.T) {
	store := memory.New()
	system := application.NewBookingSystem(application.BookingSystemConfig{TotalSeats: 5}, store, store, store)
	require.NoError(t, system.Initialize(context.Background()))
	r := NewRandomBooker(system, 5)
	r.maxPause = 0

	assert.Equal(t, 5, r.Run(context.Background()))

	history, err := system.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 5)
	require.NoError(t, system.CheckInvariant(context.Background()))
}
