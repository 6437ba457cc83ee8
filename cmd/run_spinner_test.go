package cmd

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSimulationSpinnerReturnsSimulateResult(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	calls := 0
	err := runSimulationSpinner(context.Background(), &out, func(_ context.Context, progress func(done, total int)) error {
		for i := 1; i <= 5; i++ {
			progress(i, 5)
			calls++
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)

	failure := errors.New("write record")
	err = runSimulationSpinner(context.Background(), &out, func(context.Context, func(done, total int)) error {
		return failure
	})
	require.ErrorIs(t, err, failure)
}

func TestRunSimulationSpinnerWaitsForSimulateAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var returned atomic.Bool
	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	var out bytes.Buffer
	err := runSimulationSpinner(ctx, &out, func(ctx context.Context, progress func(done, total int)) error {
		close(started)
		<-ctx.Done()
		progress(1, 10)
		time.Sleep(50 * time.Millisecond)
		returned.Store(true)
		return ctx.Err()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, returned.Load(), "spinner returned before the simulation finished")
}
