package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// runEvery runs fn now and then every interval until ctx is done. A run
// still in progress when the next one is due delays it instead of
// overlapping it. Failed runs are logged and do not stop the schedule.
// Cancelling ctx is the normal way to stop and returns nil.
func runEvery(ctx context.Context, interval time.Duration, name string, logger *log.Logger, fn func(context.Context) error) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			if err := fn(ctx); err != nil {
				logger.Error("scheduled run failed", "job", name, "error", err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	logger.Info("scheduled", "job", name, "every", interval)
	s.Start()
	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "error", err)
	}
	return nil
}
