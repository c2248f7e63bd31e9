package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// SeatCacheInterface は空席数キャッシュのインターフェース
type SeatCacheInterface interface {
	GetAvailableCount(ctx context.Context) (int, error)
	SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// SeatCache は座席プールの空席数をキャッシュする
type SeatCache struct {
	client *redis.Client
	key    string
}

// NewSeatCache は新しいSeatCacheインスタンスを作成する
// prefix ごとに別の座席プールとして扱う
func NewSeatCache(client *redis.Client, prefix string) *SeatCache {
	key := "seats:available"
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &SeatCache{client: client, key: key}
}

// GetAvailableCount は空席数をキャッシュから取得する
func (c *SeatCache) GetAvailableCount(ctx context.Context) (int, error) {
	val, err := c.client.Get(ctx, c.key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は空席数をキャッシュに保存する
func (c *SeatCache) SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は空席数キャッシュを無効化する
func (c *SeatCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

var _ SeatCacheInterface = (*SeatCache)(nil)
