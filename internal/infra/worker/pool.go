package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"toy-admin/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var (
	ErrQueueFull  = errors.New("worker queue full")
	ErrPoolClosed = errors.New("worker pool closed")
)

type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	jobs   chan Task
	n      int
	log    *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	l := logger.With().Str("component", "worker_pool").Logger()
	return &Pool{jobs: make(chan Task, workers*4), n: workers, log: &l}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-p.jobs:
					if !ok {
						return
					}
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						metrics.IncWorkerJob("failed")
						p.log.Error().Err(err).Int("worker", id).Msg("task failed")
						continue
					}
					metrics.IncWorkerJob("completed")
				}
			}
		}(i)
	}
}

// Stop closes the queue and waits until workers have drained it.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit enqueues task without blocking and drops it when saturated.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		metrics.IncWorkerJob("dropped")
		return ErrQueueFull
	}
}

// SubmitWait blocks until task is queued or ctx is done.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
