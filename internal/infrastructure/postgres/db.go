package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/config"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
)

// ErrConnectionExhausted はリトライ上限まで接続を取得できなかったことを示す
var ErrConnectionExhausted = errors.New("データベース接続のリトライ上限に達しました")

// NewConnection はPostgreSQLへの接続を作成する
// 起動直後にDBが立ち上がっていない場合に備え、設定回数だけ固定間隔で再試行する
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := retry(ctx, cfg.MaxRetries, cfg.RetryDelay, func() (*sqlx.DB, error) {
		return sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	})
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
	}

	// 接続プール設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return db, nil
}

// Ping はデータベース接続を確認する
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// Gateway はコネクション取得にリトライを適用する
type Gateway struct {
	db       *sqlx.DB
	maxTries int
	delay    time.Duration
}

// NewGateway は新しい Gateway を作成する
func NewGateway(db *sqlx.DB, maxTries int, delay time.Duration) *Gateway {
	if maxTries < 1 {
		maxTries = 1
	}
	return &Gateway{db: db, maxTries: maxTries, delay: delay}
}

// DB は内部の接続プールを返す
func (g *Gateway) DB() *sqlx.DB {
	return g.db
}

// Conn はプールからコネクションを1本取得する
// maxTries 回失敗した場合は ErrConnectionExhausted を返す
func (g *Gateway) Conn(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := retry(ctx, g.maxTries, g.delay, func() (*sqlx.Conn, error) {
		return g.db.Connx(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrConnectionExhausted, err)
	}
	return conn, nil
}

// WithConnection はコネクションを取得して fn を実行し、終了後に返却する
// fn 自体のエラーはリトライしない
func (g *Gateway) WithConnection(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := g.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// retry は op を固定間隔で最大 tries 回実行する
func retry[T any](ctx context.Context, tries int, delay time.Duration, op func() (T, error)) (T, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		return op()
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(tries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("データベース接続に失敗、再試行します",
				zap.Int("attempt", attempt),
				zap.Int("max_tries", tries),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
}
