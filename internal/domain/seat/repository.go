package seat

import (
	"context"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

// Inventory は座席在庫のインターフェース
// 変更系の呼び出しはオーケストレーターのロック下でのみ行う
type Inventory interface {
	// Initialize は座席 1..capacity を空席として作成する（既存行は変更しない）
	Initialize(ctx context.Context, capacity int) error

	// Available は空席IDを昇順で返す
	Available(ctx context.Context) ([]int, error)

	// List は全座席をID昇順で返す
	List(ctx context.Context) ([]*Seat, error)

	// Assign は座席をまとめて予約に割り当てる（全件成功か全件失敗、トランザクション必須）
	Assign(ctx context.Context, tx transaction.Tx, seatIDs []int, bookingID int64) error

	// Release は予約に割り当てられた座席をすべて解放し、解放数を返す（トランザクション必須）
	Release(ctx context.Context, tx transaction.Tx, bookingID int64) (int, error)
}
