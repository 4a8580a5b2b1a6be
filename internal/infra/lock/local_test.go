//go:build unit

package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/infra/lock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLocalLocker_SerializesPerResource(t *testing.T) {
	locker := lock.NewLocalLocker(time.Second)
	resourceID := uuid.New()

	var inside, maxInside atomic.Int32
	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			release, err := locker.Acquire(context.Background(), resourceID)
			if err != nil {
				return err
			}
			defer release()
			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, locker.Len())
}

func TestLocalLocker_ResourcesAreIndependent(t *testing.T) {
	locker := lock.NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	releaseB()
	assert.Equal(t, 1, locker.Len())
}

func TestLocalLocker_Timeout(t *testing.T) {
	locker := lock.NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()
	resourceID := uuid.New()

	release, err := locker.Acquire(ctx, resourceID)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, resourceID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, shared.ErrLockTimeout))

	release()
	release() // second call is a no-op
	again, err := locker.Acquire(ctx, resourceID)
	require.NoError(t, err)
	again()
	assert.Zero(t, locker.Len())
}

func TestLocalLocker_CallerCancellation(t *testing.T) {
	locker := lock.NewLocalLocker(time.Second)
	resourceID := uuid.New()

	release, err := locker.Acquire(context.Background(), resourceID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	var acquireErr error
	go func() {
		defer wg.Done()
		_, acquireErr = locker.Acquire(ctx, resourceID)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.ErrorIs(t, acquireErr, context.Canceled)
	assert.False(t, errs.Is(acquireErr, shared.ErrLockTimeout))
}
