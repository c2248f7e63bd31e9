package worker

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
)

// DefaultRequesters はランダム予約で使う予約者名
var DefaultRequesters = []string{"Alice", "Bob", "Charlie", "David", "Eve"}

const (
	maxRandomSeats  = 3
	defaultMaxPause = 2 * time.Second
)

// Booker は座席を予約するインターフェース
type Booker interface {
	Book(ctx context.Context, in application.BookInput) (*booking.Booking, error)
}

// RandomBooker はランダムな予約を連続して行う負荷生成ワーカー
// Trigger で1回分の実行を依頼し、実行中の依頼は受け付けない
type RandomBooker struct {
	system     Booker
	bookings   int
	maxPause   time.Duration
	requesters []string
	intN       func(n int) int

	triggerCh chan struct{}
	running   atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// NewRandomBooker は新しいワーカーを作成
func NewRandomBooker(s Booker, bookings int) *RandomBooker {
	return &RandomBooker{
		system:     s,
		bookings:   bookings,
		maxPause:   defaultMaxPause,
		requesters: DefaultRequesters,
		intN:       rand.IntN,
		triggerCh:  make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Trigger は1回分のランダム予約を依頼する
// 実行中または依頼済みの場合は false を返す
func (r *RandomBooker) Trigger() bool {
	if r.running.Load() {
		return false
	}
	select {
	case r.triggerCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Start はワーカーを開始し、停止するまでブロックする
func (r *RandomBooker) Start(ctx context.Context) {
	defer close(r.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-r.triggerCh:
			r.running.Store(true)
			r.Run(ctx)
			r.running.Store(false)
		}
	}
}

// Stop はワーカーを停止し、終了を待つ
func (r *RandomBooker) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

// Run はランダムな予約を bookings 回行い、受け付けられた件数を返す
// 各予約の間にランダムな待機を入れる
func (r *RandomBooker) Run(ctx context.Context) int {
	logger.Info("ランダム予約開始", zap.Int("bookings", r.bookings))
	accepted := 0
	for i := 0; i < r.bookings; i++ {
		in := application.BookInput{
			Requester: r.requesters[r.intN(len(r.requesters))],
			Seats:     r.intN(maxRandomSeats) + 1,
		}
		b, err := r.system.Book(ctx, in)
		if err != nil {
			logger.Warn("ランダム予約に失敗",
				zap.String("requester", in.Requester),
				zap.Int("seats", in.Seats),
				zap.Error(err),
			)
		} else {
			accepted++
			logger.Info("ランダム予約",
				zap.Int64("booking_id", b.ID),
				zap.String("requester", b.Requester),
				zap.Int("seats", b.SeatsBooked),
				zap.String("status", string(b.Status)),
			)
		}

		if !r.pause(ctx) {
			break
		}
	}
	logger.Info("ランダム予約終了", zap.Int("accepted", accepted))
	return accepted
}

func (r *RandomBooker) pause(ctx context.Context) bool {
	if r.maxPause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(time.Duration(r.intN(int(r.maxPause))))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-r.stopCh:
		return false
	case <-timer.C:
		return true
	}
}
