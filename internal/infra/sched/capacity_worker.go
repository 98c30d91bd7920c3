package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"toy-admin/internal/infra/metrics"
)

// CodeSpaceReporter reports how many activation codes are held and the used
// fraction of the code space.
type CodeSpaceReporter interface {
	CodeSpaceUsage(ctx context.Context) (issued int, ratio float64, err error)
}

// CapacityWorker publishes activation code space usage and warns before the
// space gets crowded enough for issuance to start failing.
type CapacityWorker struct {
	interval  time.Duration
	warnRatio float64
	stats     CodeSpaceReporter
	log       *zerolog.Logger
}

func NewCapacityWorker(interval time.Duration, warnRatio float64, stats CodeSpaceReporter, logger *zerolog.Logger) *CapacityWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	capLog := logger.With().Str("component", "CapacityWorker").Logger()
	return &CapacityWorker{
		interval:  interval,
		warnRatio: warnRatio,
		stats:     stats,
		log:       &capLog,
	}
}

func (w *CapacityWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting capacity worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping capacity worker")
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *CapacityWorker) check(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Msg("capacity check failed")
	}
}

// Check samples usage once and reports whether it crossed the warn ratio.
func (w *CapacityWorker) Check(ctx context.Context) (bool, error) {
	issued, ratio, err := w.stats.CodeSpaceUsage(ctx)
	if err != nil {
		return false, err
	}
	metrics.SetCodeSpaceUsage(int64(issued), ratio)

	if w.warnRatio > 0 && ratio >= w.warnRatio {
		w.log.Warn().
			Int("issued", issued).
			Float64("ratio", ratio).
			Float64("warn_ratio", w.warnRatio).
			Msg("activation code space is filling up")
		return true, nil
	}
	w.log.Debug().Int("issued", issued).Float64("ratio", ratio).Msg("activation code space usage")
	return false, nil
}
