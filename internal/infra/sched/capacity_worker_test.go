//go:build !integration

package sched

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeUsage struct {
	issued int
	ratio  float64
	err    error
	calls  atomic.Int32
}

func (f *fakeUsage) CodeSpaceUsage(ctx context.Context) (int, float64, error) {
	f.calls.Add(1)
	return f.issued, f.ratio, f.err
}

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestCapacityWorker_Check(t *testing.T) {
	t.Run("should warn at or above the ratio", func(t *testing.T) {
		w := NewCapacityWorker(time.Minute, 0.8, &fakeUsage{issued: 720000, ratio: 0.8}, newTestLogger())
		warn, err := w.Check(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !warn {
			t.Error("expected a warning at 80% usage")
		}
	})

	t.Run("should stay quiet below the ratio", func(t *testing.T) {
		w := NewCapacityWorker(time.Minute, 0.8, &fakeUsage{issued: 10, ratio: 10.0 / 900000}, newTestLogger())
		warn, err := w.Check(context.Background())
		if err != nil || warn {
			t.Errorf("expected (false, nil), got (%v, %v)", warn, err)
		}
	})

	t.Run("should surface store errors", func(t *testing.T) {
		boom := errors.New("db down")
		w := NewCapacityWorker(time.Minute, 0.8, &fakeUsage{err: boom}, newTestLogger())
		if _, err := w.Check(context.Background()); !errors.Is(err, boom) {
			t.Errorf("expected %v, got %v", boom, err)
		}
	})
}

func TestCapacityWorker_Run(t *testing.T) {
	usage := &fakeUsage{issued: 1, ratio: 0.1}
	w := NewCapacityWorker(10*time.Millisecond, 0.8, usage, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if n := usage.calls.Load(); n < 2 {
		t.Errorf("expected an initial check plus ticks, got %d calls", n)
	}
}
