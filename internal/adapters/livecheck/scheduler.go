package livecheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/okian/pldash/pkg/logger"
)

// Scheduler refreshes a Checker on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	checker  *Checker
	schedule string
	log      logger.Logger

	// ctx is cancelled by Stop so in-flight checks abort.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler registers checker under schedule, e.g. "@every 15m".
func NewScheduler(checker *Checker, schedule string, log logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(),
		checker:  checker,
		schedule: schedule,
		log:      log.Named("livecheck"),
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("live check schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	if s.ctx.Err() != nil {
		return
	}
	live := s.checker.Check(s.ctx)
	s.log.Debug(s.ctx, "live check ran", logger.Bool("live", live))
}

// Start fires one check in the background and starts the schedule.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()
	s.cron.Start()
	s.log.Info(ctx, "live check scheduled", logger.String("schedule", s.schedule))
}

// Stop cancels any check in flight, halts the schedule and waits for
// running checks to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronDone.Done()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	s.log.Info(ctx, "live check stopped")
}
