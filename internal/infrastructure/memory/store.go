package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

// ErrTxRequired は書き込み系の呼び出しにこのストアのトランザクションが渡されなかったことを示す
var ErrTxRequired = errors.New("memory ストアのトランザクションが必要です")

// ErrTxDone は終了済みトランザクションの再利用を示す
var ErrTxDone = errors.New("トランザクションは終了済みです")

// Store はプロセス内で完結する予約台帳と座席在庫
// 書き込みは即時反映し、ロールバック時は取り消し操作を逆順に適用する
type Store struct {
	mu       sync.RWMutex
	bookings []*booking.Booking
	seats    map[int]*int64
	capacity int
	nextID   int64
}

func New() *Store {
	return &Store{
		seats:  make(map[int]*int64),
		nextID: 1,
	}
}

type memTx struct {
	store *Store
	undo  []func()
	done  bool
}

func (t *memTx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.undo = nil
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	return nil
}

// Begin は新しいトランザクションを開始する
func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{store: s}, nil
}

func (s *Store) txOf(tx transaction.Tx) (*memTx, error) {
	t, ok := tx.(*memTx)
	if !ok || t.store != s {
		return nil, ErrTxRequired
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}

// Ledger

func (s *Store) Create(_ context.Context, tx transaction.Tx, b *booking.Booking) error {
	t, err := s.txOf(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID
	s.nextID++
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	stored := *b
	stored.SeatIDs = nil
	s.bookings = append(s.bookings, &stored)

	t.undo = append(t.undo, func() {
		s.bookings = s.bookings[:len(s.bookings)-1]
		s.nextID--
	})
	return nil
}

func (s *Store) SetStatus(_ context.Context, tx transaction.Tx, id int64, status booking.Status) error {
	t, err := s.txOf(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return booking.ErrBookingNotFound
	}
	prev := b.Status
	b.Status = status
	t.undo = append(t.undo, func() { b.Status = prev })
	return nil
}

func (s *Store) All(_ context.Context) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Booking, len(s.bookings))
	for i, b := range s.bookings {
		c := *b
		result[i] = &c
	}
	return result, nil
}

func (s *Store) CountsByStatus(_ context.Context) (map[booking.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[booking.Status]int)
	for _, b := range s.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

// bookings はID昇順に追加されるので二分探索できる
func (s *Store) find(id int64) *booking.Booking {
	i := sort.Search(len(s.bookings), func(i int) bool { return s.bookings[i].ID >= id })
	if i < len(s.bookings) && s.bookings[i].ID == id {
		return s.bookings[i]
	}
	return nil
}

// Inventory

func (s *Store) Initialize(_ context.Context, capacity int) error {
	if capacity < 1 {
		return seat.ErrInvalidCapacity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.capacity = capacity
	for id := 1; id <= capacity; id++ {
		if _, ok := s.seats[id]; !ok {
			s.seats[id] = nil
		}
	}
	return nil
}

func (s *Store) Available(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, s.capacity)
	for id := 1; id <= s.capacity; id++ {
		if s.seats[id] == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) List(_ context.Context) ([]*seat.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seats := make([]*seat.Seat, 0, s.capacity)
	for id := 1; id <= s.capacity; id++ {
		st := seat.NewSeat(id)
		if owner := s.seats[id]; owner != nil {
			bid := *owner
			st.BookingID = &bid
		}
		seats = append(seats, st)
	}
	return seats, nil
}

func (s *Store) Assign(_ context.Context, tx transaction.Tx, seatIDs []int, bookingID int64) error {
	t, err := s.txOf(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// 全件確認してから書き込む
	for _, id := range seatIDs {
		owner, ok := s.seats[id]
		if !ok || id > s.capacity || owner != nil {
			return seat.ErrSeatAlreadyAssigned
		}
	}
	for _, id := range seatIDs {
		bid := bookingID
		s.seats[id] = &bid
	}
	assigned := append([]int(nil), seatIDs...)
	t.undo = append(t.undo, func() {
		for _, id := range assigned {
			s.seats[id] = nil
		}
	})
	return nil
}

func (s *Store) Release(_ context.Context, tx transaction.Tx, bookingID int64) (int, error) {
	t, err := s.txOf(tx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var released []int
	for id, owner := range s.seats {
		if owner != nil && *owner == bookingID {
			s.seats[id] = nil
			released = append(released, id)
		}
	}
	t.undo = append(t.undo, func() {
		for _, id := range released {
			bid := bookingID
			s.seats[id] = &bid
		}
	})
	return len(released), nil
}

var (
	_ booking.Ledger      = (*Store)(nil)
	_ seat.Inventory      = (*Store)(nil)
	_ transaction.Manager = (*Store)(nil)
)
