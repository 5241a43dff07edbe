//go:build unit

package workerpool_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"seckill-service/internal/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool_RunsAllSubmittedTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := workerpool.New("test", 3, discardLogger())
	var count atomic.Int32
	for range 20 {
		require.NoError(t, pool.Submit(func(context.Context) error {
			count.Add(1)
			return nil
		}))
	}
	pool.Wait()

	assert.Equal(t, int32(20), count.Load())
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPool_TrySubmitWhenSaturated(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := workerpool.New("test", 1, discardLogger())
	release := make(chan struct{})
	started := make(chan struct{})

	ok := pool.TrySubmit(func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.True(t, ok)
	<-started

	assert.False(t, pool.TrySubmit(func(context.Context) error { return nil }), "pool of one is busy")

	close(release)
	pool.Wait()
	assert.True(t, pool.TrySubmit(func(context.Context) error { return nil }))
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPool_StopCancelsRunningTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := workerpool.New("test", 2, discardLogger())
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(ctx))

	assert.False(t, pool.TrySubmit(func(context.Context) error { return nil }))
	assert.ErrorIs(t, pool.Submit(func(context.Context) error { return nil }), workerpool.ErrPoolStopped)
}

func TestPool_SurvivesFailingAndPanickingTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := workerpool.New("test", 2, discardLogger())
	var ran atomic.Int32
	require.NoError(t, pool.Submit(func(context.Context) error { return errors.New("boom") }))
	require.NoError(t, pool.Submit(func(context.Context) error { panic("boom") }))
	require.NoError(t, pool.Submit(func(context.Context) error {
		ran.Add(1)
		return nil
	}))
	pool.Wait()

	assert.Equal(t, int32(1), ran.Load())
	require.NoError(t, pool.Stop(context.Background()))
}
