package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbuddy/pkg/shutdown"
)

func TestWaitRunsAllHooks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	cancel()
	err := shutdown.Wait(ctx, time.Second, hook, hook, hook)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitJoinsHookErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errA := errors.New("close db")
	errB := errors.New("close redis")

	cancel()
	err := shutdown.Wait(ctx, time.Second,
		func(context.Context) error { return errA },
		func(context.Context) error { return nil },
		func(context.Context) error { return errB },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestWaitRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := shutdown.Wait(ctx, 100*time.Millisecond, func(hookCtx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-hookCtx.Done():
			<-time.After(time.Second)
			return hookCtx.Err()
		}
	})

	assert.ErrorIs(t, err, shutdown.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitHookContextOutlivesCanceledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := shutdown.Wait(ctx, time.Second, func(hookCtx context.Context) error {
		return hookCtx.Err()
	})

	assert.NoError(t, err)
}

func TestWaitRunsHooksConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := func(context.Context) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	}

	start := time.Now()
	require.NoError(t, shutdown.Wait(ctx, 2*time.Second, slow, slow, slow))
	assert.Less(t, time.Since(start), 800*time.Millisecond)
}
