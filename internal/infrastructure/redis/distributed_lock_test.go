package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLockManager(t *testing.T) (*LockManager, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { client.Close() })
	m := NewLockManager(client, "railway")
	m.newToken = func() string { return "owner-1" }
	return m, mock
}

func TestLockManager_AcquireLock(t *testing.T) {
	ctx := context.Background()

	t.Run("ロックを取得できる", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", 5*time.Second).SetVal(true)

		lock, err := manager.AcquireLock(ctx, "booking", 5*time.Second)

		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("同じキーのロックは取得できない", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", 5*time.Second).SetVal(false)

		lock, err := manager.AcquireLock(ctx, "booking", 5*time.Second)

		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, lock)
	})

	t.Run("Redisエラーはそのまま返す", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", 5*time.Second).SetErr(assert.AnError)

		_, err := manager.AcquireLock(ctx, "booking", 5*time.Second)

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrLockNotAcquired)
	})
}

func TestLockManager_AcquireLockWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("リトライで取得できる", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(false)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(true)

		lock, err := manager.AcquireLockWithRetry(ctx, "booking", time.Second, 3, time.Millisecond)

		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("リトライ上限で失敗する", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		for i := 0; i < 2; i++ {
			mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(false)
		}

		lock, err := manager.AcquireLockWithRetry(ctx, "booking", time.Second, 2, time.Millisecond)

		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, lock)
	})

	t.Run("コンテキストのキャンセルで中断する", func(t *testing.T) {
		manager, mock := newMockLockManager(t)
		mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(false)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := manager.AcquireLockWithRetry(cctx, "booking", time.Second, 5, time.Second)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDistributedLock_Release(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		result      int64
		expectedErr error
	}{
		{"所有者は解放できる", 1, nil},
		{"所有者でなければ解放できない", 0, ErrLockNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, mock := newMockLockManager(t)
			mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(true)
			mock.ExpectEval(releaseScript, []string{"railway:lock:booking"}, "owner-1").SetVal(tt.result)

			lock, err := manager.AcquireLock(ctx, "booking", time.Second)
			require.NoError(t, err)

			err = lock.Release(ctx)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDistributedLock_Extend(t *testing.T) {
	ctx := context.Background()
	manager, mock := newMockLockManager(t)
	mock.ExpectSetNX("railway:lock:booking", "owner-1", time.Second).SetVal(true)
	mock.ExpectEval(extendScript, []string{"railway:lock:booking"}, "owner-1", int64(3000)).SetVal(int64(1))

	lock, err := manager.AcquireLock(ctx, "booking", time.Second)
	require.NoError(t, err)

	require.NoError(t, lock.Extend(ctx, 3*time.Second))
	assert.Equal(t, 3*time.Second, lock.(*DistributedLock).ttl)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockManager_KeyWithoutPrefix(t *testing.T) {
	client, _ := redismock.NewClientMock()
	defer client.Close()

	assert.Equal(t, "lock:booking", NewLockManager(client, "").lockKey("booking"))
}
