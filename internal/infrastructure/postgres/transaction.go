package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/transaction"
)

// TxWrapper は sqlx.Tx を transaction.Tx インターフェースでラップする
// トランザクション終了時に専有していたコネクションをプールへ返す
type TxWrapper struct {
	*sqlx.Tx
	conn *sqlx.Conn
	done bool
}

// Commit はトランザクションをコミットする
func (t *TxWrapper) Commit() error {
	err := t.Tx.Commit()
	t.finish()
	return err
}

// Rollback はトランザクションをロールバックする
// 終了済みの場合は何もしない
func (t *TxWrapper) Rollback() error {
	if t.done {
		return nil
	}
	err := t.Tx.Rollback()
	t.finish()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (t *TxWrapper) finish() {
	if t.done {
		return
	}
	t.done = true
	if t.conn != nil {
		_ = t.conn.Close()
	}
}

// TxManager は Gateway 経由でコネクションを取得するトランザクションマネージャー
type TxManager struct {
	gw *Gateway
}

// NewTxManager は新しい TxManager を作成する
func NewTxManager(gw *Gateway) *TxManager {
	return &TxManager{gw: gw}
}

// Begin は新しいトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	conn, err := m.gw.Conn(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &TxWrapper{Tx: tx, conn: conn}, nil
}

// UnwrapTx は transaction.Tx から sqlx.Tx を取り出す
// リポジトリ実装で使用する
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

var _ transaction.Manager = (*TxManager)(nil)
