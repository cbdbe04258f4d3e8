package game

import (
	"time"

	"github.com/rs/zerolog/log"

	"cardroom.com/tourney/logging"
)

var schedulerLogger = log.With().Str("logger_name", "game::scheduler").Logger()

// Scheduler runs single-shot deferred tasks. Every task carries a guard
// that is re-checked at fire time, under the same serialization as every
// other engine mutation: if the table has moved on since the task was
// scheduled (different hand, different active seat, a restart), the
// guard fails and the task is a no-op. Pending tasks are never cancelled
// externally; superseding the state is what invalidates them.
type Scheduler struct {
	// run serializes the task body with all other engine mutations.
	run func(fn func())
}

func NewScheduler(run func(fn func())) *Scheduler {
	return &Scheduler{run: run}
}

// SingleShot fires once after the delay. The guard and the body both
// execute inside the serialized run function.
func (s *Scheduler) SingleShot(name string, delay time.Duration, guard func() bool, fire func()) {
	time.AfterFunc(delay, func() {
		s.run(func() {
			if !guard() {
				schedulerLogger.Debug().
					Str(logging.TaskKey, name).
					Msg("Skipping stale deferred task")
				return
			}
			fire()
		})
	})
}
