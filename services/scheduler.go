// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStaleMatchSweeper abandons matches left IN_PROGRESS for longer than
// maxAge, checking every interval. Callers own the returned scheduler and
// must Shutdown it.
func (s *MatchService) StartStaleMatchSweeper(ctx context.Context, maxAge, every time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			n, err := s.AbandonStaleMatches(ctx, maxAge)
			if err != nil {
				s.Logger.Error("stale match sweep failed", "error", err)
				return
			}
			if n > 0 {
				s.Logger.Info("abandoned stale matches", "count", n, "max_age", maxAge.String())
			}
		}),
		gocron.WithName("stale-match-sweeper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register sweeper job: %w", err)
	}

	sched.Start()
	return sched, nil
}
