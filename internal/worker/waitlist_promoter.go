package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
)

// Promoter はキャンセル待ちを昇格するインターフェース
type Promoter interface {
	PromoteWaitlist(ctx context.Context) ([]*booking.Booking, error)
}

// WaitlistPromoter はキャンセル待ちの昇格を定期的に実行するワーカー
type WaitlistPromoter struct {
	system   Promoter
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewWaitlistPromoter は新しいワーカーを作成
func NewWaitlistPromoter(s Promoter, interval time.Duration) *WaitlistPromoter {
	return &WaitlistPromoter{
		system:   s,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始し、停止するまでブロックする
func (w *WaitlistPromoter) Start(ctx context.Context) {
	defer close(w.doneCh)
	if w.interval <= 0 {
		logger.Info("キャンセル待ちの定期昇格は無効です")
		return
	}
	logger.Info("キャンセル待ち昇格ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("キャンセル待ち昇格ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("キャンセル待ち昇格ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.promote(ctx)
		}
	}
}

// Stop はワーカーを停止し、終了を待つ
func (w *WaitlistPromoter) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *WaitlistPromoter) promote(ctx context.Context) {
	log := logger.Get()

	promoted, err := w.system.PromoteWaitlist(ctx)
	if err != nil {
		log.Error("キャンセル待ちの定期昇格に失敗", zap.Error(err), zap.Int("promoted", len(promoted)))
		return
	}

	if len(promoted) > 0 {
		log.Info("キャンセル待ちを定期昇格", zap.Int("count", len(promoted)))
	} else {
		log.Debug("昇格できるキャンセル待ちなし")
	}
}
