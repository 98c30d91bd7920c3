package usecase

import (
	"context"
	"sync"
	"time"
)

var _ CodeReserver = (*MemoryCodeReserver)(nil)

// MemoryCodeReserver is a process-local CodeReserver used when Redis is not
// configured. It only coordinates issuers inside one process.
type MemoryCodeReserver struct {
	mu    sync.Mutex
	held  map[string]time.Time
	nowFn func() time.Time
}

func NewMemoryCodeReserver() *MemoryCodeReserver {
	return &MemoryCodeReserver{held: make(map[string]time.Time), nowFn: time.Now}
}

func (r *MemoryCodeReserver) Reserve(_ context.Context, code string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn()
	if exp, ok := r.held[code]; ok && now.Before(exp) {
		return false, nil
	}
	r.held[code] = now.Add(ttl)
	r.sweep(now)
	return true, nil
}

func (r *MemoryCodeReserver) Release(_ context.Context, code string) error {
	r.mu.Lock()
	delete(r.held, code)
	r.mu.Unlock()
	return nil
}

// sweep drops expired entries; caller holds mu.
func (r *MemoryCodeReserver) sweep(now time.Time) {
	if len(r.held) < 1024 {
		return
	}
	for code, exp := range r.held {
		if !now.Before(exp) {
			delete(r.held, code)
		}
	}
}
