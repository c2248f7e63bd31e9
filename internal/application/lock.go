package application

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// writeWeight は書き込みロックが確保する重み（= 同時に入れる読み取りの上限）
const writeWeight = 1 << 10

// rwLock はコンテキストで待機を中断できる共有/排他ロック
// 書き込みは全重み、読み取りは重み1を確保する
// semaphore は先着順なので、待機中の書き込みより後の読み取りは追い越さない
type rwLock struct {
	sem *semaphore.Weighted
}

func newRWLock() *rwLock {
	return &rwLock{sem: semaphore.NewWeighted(writeWeight)}
}

func (l *rwLock) Lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, writeWeight)
}

func (l *rwLock) Unlock() {
	l.sem.Release(writeWeight)
}

func (l *rwLock) RLock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *rwLock) RUnlock() {
	l.sem.Release(1)
}
