package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
	redisinfra "github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/redis"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/metrics"
)

var (
	// ErrSeatAssignmentFailed は予約行の保存後に座席割り当てが失敗したことを示す
	// 予約行は確定状態のまま残る
	ErrSeatAssignmentFailed = errors.New("予約は保存されましたが座席の割り当てに失敗しました")
	// ErrLockUnavailable は分散ロックを取得できなかったことを示す
	ErrLockUnavailable = errors.New("予約システムのロックを取得できませんでした")
	// ErrInvariantViolated は割り当て済み座席数と確定予約の座席数が一致しないことを示す
	ErrInvariantViolated = errors.New("座席と予約台帳の整合性が崩れています")
)

const (
	opBook    = "book"
	opCancel  = "cancel"
	opPromote = "promote"
)

// BookingSystemConfig は予約システムの設定
type BookingSystemConfig struct {
	TotalSeats int

	// 分散ロック（WithLockManager 指定時のみ使用）
	LockKey        string
	LockTTL        time.Duration
	LockRetries    int
	LockRetryDelay time.Duration

	// 空席数キャッシュの有効期間（WithSeatCache 指定時のみ使用）
	CacheTTL time.Duration
}

func (c *BookingSystemConfig) setDefaults() {
	if c.LockKey == "" {
		c.LockKey = "booking-system"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Second
	}
	if c.LockRetries <= 0 {
		c.LockRetries = 50
	}
	if c.LockRetryDelay <= 0 {
		c.LockRetryDelay = 100 * time.Millisecond
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 30 * time.Second
	}
}

// Option は BookingSystem の任意設定
type Option func(*BookingSystem)

// WithMetrics は操作結果とロック待ち時間を記録する
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BookingSystem) { s.metrics = m }
}

// WithSeatCache は空席数を Redis にキャッシュする
func WithSeatCache(c redisinfra.SeatCacheInterface) Option {
	return func(s *BookingSystem) { s.cache = c }
}

// WithLockManager は変更操作の間、プロセス間の分散ロックも保持する
func WithLockManager(lm redisinfra.LockManagerInterface) Option {
	return func(s *BookingSystem) { s.lockManager = lm }
}

// WithPublisher は予約通知の送信先を設定する
func WithPublisher(name string, p booking.Publisher) Option {
	return func(s *BookingSystem) {
		s.publisher = p
		s.publisherName = name
	}
}

// BookingSystem は座席プールへの予約・キャンセル・キャンセル待ち昇格を直列化する
// 変更操作はすべて排他ロック下で行い、参照は共有ロック下で行う
type BookingSystem struct {
	cfg       BookingSystemConfig
	txm       transaction.Manager
	ledger    booking.Ledger
	inventory seat.Inventory

	lock      *rwLock
	observers observers

	metrics       *metrics.Metrics
	cache         redisinfra.SeatCacheInterface
	lockManager   redisinfra.LockManagerInterface
	publisher     booking.Publisher
	publisherName string
}

// NewBookingSystem は新しい BookingSystem を作成する
func NewBookingSystem(cfg BookingSystemConfig, txm transaction.Manager, ledger booking.Ledger, inventory seat.Inventory, opts ...Option) *BookingSystem {
	cfg.setDefaults()
	s := &BookingSystem{
		cfg:           cfg,
		txm:           txm,
		ledger:        ledger,
		inventory:     inventory,
		lock:          newRWLock(),
		publisher:     logPublisher{},
		publisherName: "log",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TotalSeats は座席プールの総数を返す
func (s *BookingSystem) TotalSeats() int {
	return s.cfg.TotalSeats
}

// Initialize は座席 1..N を作成し、既存データの整合性を確認する
func (s *BookingSystem) Initialize(ctx context.Context) error {
	if s.cfg.TotalSeats < 1 {
		return seat.ErrInvalidCapacity
	}
	if err := s.lock.Lock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := s.inventory.Initialize(ctx, s.cfg.TotalSeats); err != nil {
		return fmt.Errorf("座席の初期化に失敗: %w", err)
	}
	if err := s.checkInvariant(ctx); err != nil {
		// 予約行保存後の割り当て失敗は自動修復しない
		logger.Warn("起動時の整合性チェックで不一致を検出", zap.Error(err))
	}
	s.invalidateCache(ctx)
	s.refreshGauges(ctx)
	logger.Info("予約システム初期化完了", zap.Int("total_seats", s.cfg.TotalSeats))
	return nil
}

// BookInput は予約リクエスト
type BookInput struct {
	Requester string
	Seats     int
	SeatIDs   []int // 座席指定（省略時は空席の若い番号から割り当てる）
}

// Book は座席を予約する
// 空席が足りない場合はキャンセル待ちとして記録し、エラーにはしない
func (s *BookingSystem) Book(ctx context.Context, in BookInput) (*booking.Booking, error) {
	if err := validateBookInput(in, s.cfg.TotalSeats); err != nil {
		s.record(opBook, err)
		logger.Info("予約リクエストを拒否", zap.String("requester", in.Requester), zap.Int("seats", in.Seats), zap.Error(err))
		return nil, err
	}

	var b *booking.Booking
	err := s.mutate(ctx, func(ctx context.Context) (effects, error) {
		available, err := s.inventory.Available(ctx)
		if err != nil {
			return effects{}, fmt.Errorf("空席取得に失敗: %w", err)
		}
		if len(in.SeatIDs) > 0 {
			if err := seat.CheckAvailable(in.SeatIDs, available); err != nil {
				return effects{}, err
			}
		}

		status := booking.StatusConfirmed
		if len(available) < in.Seats {
			status = booking.StatusWaitlisted
		}

		nb := booking.NewBooking(in.Requester, in.Seats, status)
		if err := transaction.Run(ctx, s.txm, func(tx transaction.Tx) error {
			return s.ledger.Create(ctx, tx, nb)
		}); err != nil {
			return effects{}, fmt.Errorf("予約の保存に失敗: %w", err)
		}

		if status == booking.StatusWaitlisted {
			b = nb
			return effects{changed: true, events: []booking.Event{booking.NewEvent(booking.EventWaitlisted, nb)}}, nil
		}

		seatIDs := in.SeatIDs
		if len(seatIDs) == 0 {
			seatIDs = available[:in.Seats]
		}
		seatIDs = sortedCopy(seatIDs)
		if err := transaction.Run(ctx, s.txm, func(tx transaction.Tx) error {
			return s.inventory.Assign(ctx, tx, seatIDs, nb.ID)
		}); err != nil {
			logger.Error("座席割り当てに失敗、予約行は残ります",
				zap.Int64("booking_id", nb.ID),
				zap.String("requester", nb.Requester),
				zap.Ints("seat_ids", seatIDs),
				zap.Error(err),
			)
			return effects{changed: true}, fmt.Errorf("%w (booking_id=%d): %w", ErrSeatAssignmentFailed, nb.ID, err)
		}
		nb.SeatIDs = seatIDs
		b = nb
		return effects{changed: true, events: []booking.Event{booking.NewEvent(booking.EventConfirmed, nb)}}, nil
	})

	if err != nil {
		s.record(opBook, err)
		return nil, err
	}
	if b.IsConfirmed() {
		s.recordOutcome(opBook, metrics.OutcomeConfirmed)
	} else {
		s.recordOutcome(opBook, metrics.OutcomeWaitlisted)
	}
	logger.Info("予約を受け付けました",
		zap.Int64("booking_id", b.ID),
		zap.String("requester", b.Requester),
		zap.Int("seats", b.SeatsBooked),
		zap.String("status", string(b.Status)),
		zap.Ints("seat_ids", b.SeatIDs),
	)
	return b, nil
}

// Cancel は予約者の最も古い確定済み予約をキャンセルし、続けてキャンセル待ちを昇格する
// seats は参考値で、一致しなくても予約全体をキャンセルする
func (s *BookingSystem) Cancel(ctx context.Context, requester string, seats int) (*booking.Booking, error) {
	if err := booking.ValidateRequester(requester); err != nil {
		s.record(opCancel, err)
		return nil, err
	}
	if seats < 1 {
		s.record(opCancel, booking.ErrInvalidSeatCount)
		return nil, booking.ErrInvalidSeatCount
	}

	var (
		cancelled *booking.Booking
		promoted  []*booking.Booking
	)
	err := s.mutate(ctx, func(ctx context.Context) (effects, error) {
		all, err := s.ledger.All(ctx)
		if err != nil {
			return effects{}, fmt.Errorf("予約一覧取得に失敗: %w", err)
		}
		target := firstConfirmed(all, requester)
		if target == nil {
			return effects{}, booking.ErrNoConfirmedBooking
		}
		if seats != target.SeatsBooked {
			logger.Warn("キャンセル座席数が予約座席数と異なります、予約全体をキャンセルします",
				zap.Int64("booking_id", target.ID),
				zap.Int("requested", seats),
				zap.Int("booked", target.SeatsBooked),
			)
		}

		var released int
		if err := transaction.Run(ctx, s.txm, func(tx transaction.Tx) error {
			if err := s.ledger.SetStatus(ctx, tx, target.ID, booking.StatusCancelled); err != nil {
				return err
			}
			var err error
			released, err = s.inventory.Release(ctx, tx, target.ID)
			return err
		}); err != nil {
			return effects{}, fmt.Errorf("キャンセルの保存に失敗: %w", err)
		}
		_ = target.Cancel()
		cancelled = target
		logger.Info("予約をキャンセルしました",
			zap.Int64("booking_id", target.ID),
			zap.String("requester", target.Requester),
			zap.Int("seats", target.SeatsBooked),
			zap.Int("released", released),
		)

		fx := effects{changed: true, events: []booking.Event{booking.NewEvent(booking.EventCancelled, target)}}
		promoted, err = s.promoteLocked(ctx)
		fx.events = append(fx.events, promotedEvents(promoted)...)
		if err != nil {
			// キャンセル自体は確定済み
			logger.Error("キャンセル後のキャンセル待ち昇格に失敗", zap.Error(err))
		}
		return fx, nil
	})

	if err != nil {
		s.record(opCancel, err)
		return nil, err
	}
	s.recordOutcome(opCancel, metrics.OutcomeSuccess)
	s.recordPromotions(len(promoted))
	return cancelled, nil
}

// PromoteWaitlist はキャンセル待ちを作成順に走査し、空席に収まるものを確定する
// 収まらない予約は飛ばして後続を評価する
func (s *BookingSystem) PromoteWaitlist(ctx context.Context) ([]*booking.Booking, error) {
	var promoted []*booking.Booking
	err := s.mutate(ctx, func(ctx context.Context) (effects, error) {
		var err error
		promoted, err = s.promoteLocked(ctx)
		fx := effects{changed: len(promoted) > 0, events: promotedEvents(promoted)}
		return fx, err
	})
	s.recordPromotions(len(promoted))
	if err != nil {
		s.record(opPromote, err)
		return promoted, err
	}
	s.recordOutcome(opPromote, metrics.OutcomeSuccess)
	return promoted, nil
}

// promoteLocked は排他ロック保持中に呼ぶ
// 途中で失敗した場合はそれまでに昇格した予約とエラーを返す
func (s *BookingSystem) promoteLocked(ctx context.Context) ([]*booking.Booking, error) {
	all, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	pool, err := s.inventory.Available(ctx)
	if err != nil {
		return nil, fmt.Errorf("空席取得に失敗: %w", err)
	}

	var promoted []*booking.Booking
	for _, b := range all {
		if !b.IsWaitlisted() || len(pool) < b.SeatsBooked {
			continue
		}
		seatIDs := append([]int(nil), pool[:b.SeatsBooked]...)
		if err := transaction.Run(ctx, s.txm, func(tx transaction.Tx) error {
			if err := s.ledger.SetStatus(ctx, tx, b.ID, booking.StatusConfirmed); err != nil {
				return err
			}
			return s.inventory.Assign(ctx, tx, seatIDs, b.ID)
		}); err != nil {
			return promoted, fmt.Errorf("予約 %d の昇格に失敗: %w", b.ID, err)
		}
		_ = b.Promote()
		b.SeatIDs = seatIDs
		pool = pool[b.SeatsBooked:]
		promoted = append(promoted, b)

		logger.Info("キャンセル待ちを確定しました",
			zap.Int64("booking_id", b.ID),
			zap.String("requester", b.Requester),
			zap.Int("seats", b.SeatsBooked),
			zap.Ints("seat_ids", seatIDs),
		)
	}
	return promoted, nil
}

// SeatMap は座席ID順の表示状態を返す
func (s *BookingSystem) SeatMap(ctx context.Context) ([]seat.State, error) {
	if err := s.rlock(ctx); err != nil {
		return nil, err
	}
	defer s.lock.RUnlock()

	seats, err := s.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	states := make([]seat.State, len(seats))
	for i, st := range seats {
		states[i] = st.State()
	}
	return states, nil
}

// History は全予約を作成順に返す（確定済みには割り当て座席を付ける）
func (s *BookingSystem) History(ctx context.Context) ([]*booking.Booking, error) {
	if err := s.rlock(ctx); err != nil {
		return nil, err
	}
	defer s.lock.RUnlock()

	all, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	seats, err := s.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	byBooking := make(map[int64][]int)
	for _, st := range seats {
		if st.BookingID != nil {
			byBooking[*st.BookingID] = append(byBooking[*st.BookingID], st.ID)
		}
	}
	for _, b := range all {
		b.SeatIDs = byBooking[b.ID]
	}
	return all, nil
}

// Stats は状態ごとの予約数を返す（件数0の状態も含む）
func (s *BookingSystem) Stats(ctx context.Context) (map[booking.Status]int, error) {
	if err := s.rlock(ctx); err != nil {
		return nil, err
	}
	defer s.lock.RUnlock()
	return s.stats(ctx)
}

func (s *BookingSystem) stats(ctx context.Context) (map[booking.Status]int, error) {
	counts, err := s.ledger.CountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約統計取得に失敗: %w", err)
	}
	result := make(map[booking.Status]int, 3)
	for _, st := range booking.Statuses() {
		result[st] = counts[st]
	}
	return result, nil
}

// AvailableCount は空席数を返す
// キャッシュ設定時はキャッシュを優先し、ミス時は共有ロック下で再計算して保存する
func (s *BookingSystem) AvailableCount(ctx context.Context) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	if err := s.rlock(ctx); err != nil {
		return 0, err
	}
	defer s.lock.RUnlock()

	available, err := s.inventory.Available(ctx)
	if err != nil {
		return 0, fmt.Errorf("空席取得に失敗: %w", err)
	}
	count := len(available)
	if s.cache != nil {
		// 書き込み側は排他ロック下で無効化するので、共有ロック中の保存は古くならない
		if err := s.cache.SetAvailableCount(ctx, count, s.cfg.CacheTTL); err != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(err))
		}
	}
	return count, nil
}

// CheckInvariant は割り当て済み座席数と確定予約の座席数の合計が一致するかを確認する
func (s *BookingSystem) CheckInvariant(ctx context.Context) error {
	if err := s.rlock(ctx); err != nil {
		return err
	}
	defer s.lock.RUnlock()
	return s.checkInvariant(ctx)
}

func (s *BookingSystem) checkInvariant(ctx context.Context) error {
	all, err := s.ledger.All(ctx)
	if err != nil {
		return fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	seats, err := s.inventory.List(ctx)
	if err != nil {
		return fmt.Errorf("座席一覧取得に失敗: %w", err)
	}

	held := make(map[int64]int)
	assigned := 0
	for _, st := range seats {
		if st.BookingID != nil {
			held[*st.BookingID]++
			assigned++
		}
	}
	confirmedSeats := 0
	for _, b := range all {
		if b.IsConfirmed() {
			confirmedSeats += b.SeatsBooked
			if held[b.ID] != b.SeatsBooked {
				return fmt.Errorf("%w: booking_id=%d seats=%d assigned=%d", ErrInvariantViolated, b.ID, b.SeatsBooked, held[b.ID])
			}
		}
	}
	if assigned != confirmedSeats {
		return fmt.Errorf("%w: assigned=%d confirmed=%d", ErrInvariantViolated, assigned, confirmedSeats)
	}
	return nil
}

// Subscribe は変更操作の完了時に呼ばれるコールバックを登録し、解除関数を返す
// コールバックはロック解放後、変更を行ったゴルーチン上で同期的に呼ばれる
func (s *BookingSystem) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.add(fn)
}

// effects は変更操作の結果として外部へ伝えるもの
type effects struct {
	changed bool
	events  []booking.Event
}

// mutate は排他ロック（と設定時は分散ロック）の下で fn を実行する
// ロック解放後に通知の送信と購読者への通知を行う
func (s *BookingSystem) mutate(ctx context.Context, fn func(ctx context.Context) (effects, error)) error {
	start := time.Now()
	if err := s.lock.Lock(ctx); err != nil {
		return fmt.Errorf("ロック待機が中断されました: %w", err)
	}
	s.observeLockWait("write", start)

	fx, err := func() (effects, error) {
		defer s.lock.Unlock()

		if s.lockManager != nil {
			release, err := s.acquireDistributed(ctx)
			if err != nil {
				return effects{}, err
			}
			defer release()
		}

		fx, err := fn(ctx)
		if fx.changed {
			s.invalidateCache(ctx)
			s.refreshGauges(ctx)
		}
		return fx, err
	}()

	for _, ev := range fx.events {
		s.publish(ctx, ev)
	}
	if fx.changed {
		s.observers.notify()
	}
	return err
}

func (s *BookingSystem) rlock(ctx context.Context) error {
	start := time.Now()
	if err := s.lock.RLock(ctx); err != nil {
		return fmt.Errorf("ロック待機が中断されました: %w", err)
	}
	s.observeLockWait("read", start)
	return nil
}

func (s *BookingSystem) acquireDistributed(ctx context.Context) (func(), error) {
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, s.cfg.LockKey, s.cfg.LockTTL, s.cfg.LockRetries, s.cfg.LockRetryDelay)
	if err != nil {
		s.observeDistributed("acquire", "failed", start)
		return nil, fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	s.observeDistributed("acquire", "success", start)

	return func() {
		start := time.Now()
		// 呼び出し元のキャンセルに関係なく解放する
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.observeDistributed("release", "failed", start)
			logger.Warn("分散ロックの解放に失敗", zap.Error(err))
			return
		}
		s.observeDistributed("release", "success", start)
	}, nil
}

func (s *BookingSystem) publish(ctx context.Context, ev booking.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		logger.Warn("予約通知の送信に失敗",
			zap.String("type", string(ev.Type)),
			zap.Int64("booking_id", ev.BookingID),
			zap.String("publisher", s.publisherName),
			zap.Error(err),
		)
		s.recordNotification(metrics.OutcomeError)
		return
	}
	s.recordNotification(metrics.OutcomeSuccess)
}

func (s *BookingSystem) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

// refreshGauges は排他ロック保持中に呼ぶ
func (s *BookingSystem) refreshGauges(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if counts, err := s.stats(ctx); err == nil {
		for st, n := range counts {
			s.metrics.BookingsByStatus.WithLabelValues(string(st)).Set(float64(n))
		}
	}
	if available, err := s.inventory.Available(ctx); err == nil {
		s.metrics.SeatsAvailable.Set(float64(len(available)))
	}
}

func (s *BookingSystem) record(op string, err error) {
	s.recordOutcome(op, outcomeOf(err))
}

func (s *BookingSystem) recordOutcome(op, outcome string) {
	if s.metrics != nil {
		s.metrics.BookingOperationsTotal.WithLabelValues(op, outcome).Inc()
	}
}

func (s *BookingSystem) recordPromotions(n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.PromotionsTotal.Add(float64(n))
	}
}

func (s *BookingSystem) recordNotification(outcome string) {
	if s.metrics != nil {
		s.metrics.NotificationsTotal.WithLabelValues(s.publisherName, outcome).Inc()
	}
}

func (s *BookingSystem) observeLockWait(mode string, start time.Time) {
	if s.metrics != nil {
		s.metrics.LockWaitDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}
}

func (s *BookingSystem) observeDistributed(op, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.DistributedLockDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	}
}

// IsValidationError は入力不正による拒否かを返す
func IsValidationError(err error) bool {
	return errors.Is(err, booking.ErrInvalidRequester) ||
		errors.Is(err, booking.ErrInvalidSeatCount) ||
		errors.Is(err, seat.ErrSeatSelectionMismatch) ||
		errors.Is(err, seat.ErrSeatOutOfRange) ||
		errors.Is(err, seat.ErrSeatNotAvailable)
}

func outcomeOf(err error) string {
	switch {
	case IsValidationError(err):
		return metrics.OutcomeRejected
	case errors.Is(err, booking.ErrNoConfirmedBooking):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func validateBookInput(in BookInput, capacity int) error {
	if err := booking.ValidateRequester(in.Requester); err != nil {
		return err
	}
	if err := booking.ValidateSeatCount(in.Seats); err != nil {
		return err
	}
	if len(in.SeatIDs) > 0 {
		return seat.ValidateSelection(in.SeatIDs, in.Seats, capacity)
	}
	return nil
}

func firstConfirmed(all []*booking.Booking, requester string) *booking.Booking {
	for _, b := range all {
		if b.Requester == requester && b.IsConfirmed() {
			return b
		}
	}
	return nil
}

func promotedEvents(promoted []*booking.Booking) []booking.Event {
	events := make([]booking.Event, len(promoted))
	for i, b := range promoted {
		events[i] = booking.NewEvent(booking.EventPromoted, b)
	}
	return events
}

func sortedCopy(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

// logPublisher は通知を送信せずログに残す
type logPublisher struct{}

func (logPublisher) Publish(_ context.Context, ev booking.Event) error {
	logger.Info("予約通知（送信シミュレーション）",
		zap.String("type", string(ev.Type)),
		zap.Int64("booking_id", ev.BookingID),
		zap.String("requester", ev.Requester),
		zap.Int("seats", ev.SeatsBooked),
		zap.Ints("seat_ids", ev.SeatIDs),
	)
	return nil
}
