package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is done.
// Task errors are logged, not propagated; the next tick still fires.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	if err := task(ctx); err != nil {
		log.Error().Str("task", name).Err(err).Msg("task failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Error().Str("task", name).Err(err).Msg("task failed")
			}
		}
	}
}
