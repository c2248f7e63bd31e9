package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

// ErrTxRequired は書き込み系の呼び出しにトランザクションが渡されなかったことを示す
var ErrTxRequired = errors.New("postgres のトランザクションが必要です")

type bookingRow struct {
	ID          int64     `db:"id"`
	Requester   string    `db:"requester"`
	SeatsBooked int       `db:"seats_booked"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, Requester: r.Requester, SeatsBooked: r.SeatsBooked,
		Status: booking.Status(r.Status), CreatedAt: r.CreatedAt,
	}
}

type BookingRepository struct{ gw *Gateway }

func NewBookingRepository(gw *Gateway) *BookingRepository {
	return &BookingRepository{gw: gw}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO bookings (requester, seats_booked, status, created_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := stx.QueryRowxContext(ctx, query, b.Requester, b.SeatsBooked, string(b.Status), b.CreatedAt).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) SetStatus(ctx context.Context, tx transaction.Tx, id int64, status booking.Status) error {
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := stx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("予約状態の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) All(ctx context.Context) ([]*booking.Booking, error) {
	var rows []bookingRow
	err := r.gw.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, `SELECT id, requester, seats_booked, status, created_at FROM bookings ORDER BY id`)
	})
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *BookingRepository) CountsByStatus(ctx context.Context) (map[booking.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err := r.gw.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM bookings GROUP BY status`)
	})
	if err != nil {
		return nil, fmt.Errorf("予約統計取得に失敗: %w", err)
	}
	counts := make(map[booking.Status]int, len(rows))
	for _, row := range rows {
		counts[booking.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func requireTx(tx transaction.Tx) (*sqlx.Tx, error) {
	stx := UnwrapTx(tx)
	if stx == nil {
		return nil, ErrTxRequired
	}
	return stx, nil
}

var _ booking.Ledger = (*BookingRepository)(nil)
