package sim

import (
	"context"
	"fmt"
	"math/rand"

	"recsim/business/agent"
	"recsim/domain"
	"recsim/pkg/metrics"
)

// ProgressFunc receives observational per-tick events. Correctness must
// never depend on it; a nil hook is valid.
type ProgressFunc func(ev domain.TickEvent)

// Scheduler drives the tick loop for one run. Users are processed strictly
// sequentially in ascending index order: a review written by an earlier user
// is visible to every later user in the same tick. That ordering bias is a
// property under study and must not be "fixed" with snapshots or locks.
type Scheduler struct {
	agents         *agent.Service
	users          []*domain.User
	ticks          int
	startingBudget float64
	run            int
	progress       ProgressFunc
}

func NewScheduler(
	agents *agent.Service,
	users []*domain.User,
	ticks int,
	startingBudget float64,
	run int,
	progress ProgressFunc,
) *Scheduler {
	return &Scheduler{
		agents:         agents,
		users:          users,
		ticks:          ticks,
		startingBudget: startingBudget,
		run:            run,
		progress:       progress,
	}
}

// Run executes exactly the configured number of ticks; there is no early
// stopping even if every user is broke. The only error is an internal
// consistency fault (duplicate review), which discards the run.
func (s *Scheduler) Run(ctx context.Context, rng *rand.Rand) error {
	for tick := 0; tick < s.ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context error: %w", err)
		}

		for _, u := range s.users {
			u.ResetForTick(s.startingBudget)
		}

		reviews := 0
		for _, u := range s.users {
			stats, err := s.agents.RunTick(u, rng)
			if err != nil {
				return fmt.Errorf("tick %d user %d: %w", tick, u.Index, err)
			}
			reviews += stats.Consumed
		}

		metrics.TicksProcessedTotal.Inc()
		metrics.ReviewsRecordedTotal.Add(float64(reviews))

		if s.progress != nil {
			s.progress(domain.TickEvent{
				Run:            s.run,
				Tick:           tick,
				UsersProcessed: len(s.users),
				ReviewsWritten: reviews,
			})
		}
	}
	return nil
}
