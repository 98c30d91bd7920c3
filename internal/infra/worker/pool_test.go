//go:build !integration

package worker

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestPool(t *testing.T) {
	t.Run("should run every task submitted before stop", func(t *testing.T) {
		p := NewPool(4, newTestLogger())
		p.Start(context.Background())

		var ran atomic.Int32
		for i := 0; i < 100; i++ {
			err := p.SubmitWait(context.Background(), func(ctx context.Context) error {
				ran.Add(1)
				return nil
			})
			require.NoError(t, err)
		}
		p.Stop()
		assert.Equal(t, int32(100), ran.Load())
	})

	t.Run("should keep running after a task fails", func(t *testing.T) {
		p := NewPool(1, newTestLogger())
		p.Start(context.Background())

		var ran atomic.Int32
		require.NoError(t, p.SubmitWait(context.Background(), func(ctx context.Context) error {
			return errors.New("boom")
		}))
		require.NoError(t, p.SubmitWait(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
		p.Stop()
		assert.Equal(t, int32(1), ran.Load())
	})

	t.Run("should reject submissions after stop", func(t *testing.T) {
		p := NewPool(1, newTestLogger())
		p.Start(context.Background())
		p.Stop()

		assert.ErrorIs(t, p.Submit(func(ctx context.Context) error { return nil }), ErrPoolClosed)
		assert.ErrorIs(t, p.SubmitWait(context.Background(), func(ctx context.Context) error { return nil }), ErrPoolClosed)
	})

	t.Run("should drop when the queue is full", func(t *testing.T) {
		p := NewPool(1, newTestLogger()) // not started, queue holds 4
		for i := 0; i < 4; i++ {
			require.NoError(t, p.Submit(func(ctx context.Context) error { return nil }))
		}
		assert.ErrorIs(t, p.Submit(func(ctx context.Context) error { return nil }), ErrQueueFull)
	})
}
