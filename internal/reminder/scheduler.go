package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one reminder sweep; it returns how many reminders went out.
type Job interface {
	Execute(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	job     Job
	timeout time.Duration
}

// NewScheduler registers job under a standard five field cron spec evaluated
// in loc.
func NewScheduler(spec string, loc *time.Location, job Job) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		job:     job,
		timeout: 5 * time.Minute,
	}

	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return nil, err
	}
	return s, nil
}

// Run performs one sweep. Failures are logged; the next tick retries.
func (s *Scheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	sent, err := s.job.Execute(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reminder sweep failed")
		return
	}
	log.Info().Int("sent", sent).Dur("duration", time.Since(start)).Msg("reminder sweep finished")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
