package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

type seatRow struct {
	ID        int    `db:"seat_id"`
	BookingID *int64 `db:"booking_id"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{ID: r.ID, BookingID: r.BookingID}
}

// SeatRepository は seats テーブルの座席在庫
// 座席IDが capacity を超える既存行は無視する
type SeatRepository struct {
	gw       *Gateway
	capacity int
}

func NewSeatRepository(gw *Gateway, capacity int) *SeatRepository {
	return &SeatRepository{gw: gw, capacity: capacity}
}

func (r *SeatRepository) Initialize(ctx context.Context, capacity int) error {
	if capacity < 1 {
		return seat.ErrInvalidCapacity
	}
	r.capacity = capacity
	query := `INSERT INTO seats (seat_id, is_booked) SELECT g, FALSE FROM generate_series(1, $1) AS g ON CONFLICT (seat_id) DO NOTHING`
	err := r.gw.WithConnection(ctx, func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(ctx, query, capacity)
		return err
	})
	if err != nil {
		return fmt.Errorf("座席初期化に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) Available(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.gw.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &ids, `SELECT seat_id FROM seats WHERE is_booked = FALSE AND seat_id <= $1 ORDER BY seat_id`, r.capacity)
	})
	if err != nil {
		return nil, fmt.Errorf("空席取得に失敗: %w", err)
	}
	return ids, nil
}

func (r *SeatRepository) List(ctx context.Context) ([]*seat.Seat, error) {
	var rows []seatRow
	err := r.gw.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, `SELECT seat_id, booking_id FROM seats WHERE seat_id <= $1 ORDER BY seat_id`, r.capacity)
	})
	if err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) Assign(ctx context.Context, tx transaction.Tx, seatIDs []int, bookingID int64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	ids := make([]int64, len(seatIDs))
	for i, id := range seatIDs {
		ids[i] = int64(id)
	}
	query := `UPDATE seats SET is_booked = TRUE, booking_id = $1 WHERE seat_id = ANY($2) AND is_booked = FALSE`
	result, err := stx.ExecContext(ctx, query, bookingID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("座席割り当てに失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return seat.ErrSeatAlreadyAssigned
	}
	return nil
}

func (r *SeatRepository) Release(ctx context.Context, tx transaction.Tx, bookingID int64) (int, error) {
	stx, err := requireTx(tx)
	if err != nil {
		return 0, err
	}
	result, err := stx.ExecContext(ctx, `UPDATE seats SET is_booked = FALSE, booking_id = NULL WHERE booking_id = $1`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("座席解放に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

var _ seat.Inventory = (*SeatRepository)(nil)
