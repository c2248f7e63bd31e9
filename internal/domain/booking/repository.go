package booking

import (
	"context"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

// Ledger は予約台帳のインターフェース
type Ledger interface {
	// Create は新しい予約を保存し、採番したIDと作成日時を設定する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// SetStatus は予約の状態を更新する（トランザクション必須）
	SetStatus(ctx context.Context, tx transaction.Tx, id int64, status Status) error

	// All は全予約をID昇順（作成順）で返す
	All(ctx context.Context) ([]*Booking, error)

	// CountsByStatus は状態ごとの件数を返す
	CountsByStatus(ctx context.Context) (map[Status]int, error)
}
