// Package jobs runs the background maintenance schedule.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/core/service"
)

// Scheduler owns the cron instance and the jobs registered on it. The only
// job today is the periodic leaderboard cache rebuild, which heals ranking
// updates lost to Redis errors.
type Scheduler struct {
	cron        *cron.Cron
	leaderboard *service.LeaderboardService
	log         zerolog.Logger
}

// NewScheduler creates a Scheduler; schedules run in UTC.
func NewScheduler(leaderboard *service.LeaderboardService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		leaderboard: leaderboard,
		log:         log,
	}
}

// Start registers and starts all jobs. rebuildSpec is a standard cron
// expression, e.g. "*/5 * * * *".
func (s *Scheduler) Start(ctx context.Context, rebuildSpec string) error {
	_, err := s.cron.AddFunc(rebuildSpec, func() {
		if err := s.leaderboard.Rebuild(ctx); err != nil {
			s.log.Error().Err(err).Msg("leaderboard rebuild failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("rebuild_spec", rebuildSpec).Msg("scheduler started")
	return nil
}

// Stop halts the schedule and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
