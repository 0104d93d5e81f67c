package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/config"
	"github.com/mamadbah2/pantry-helper/internal/service/reporting"
)

const (
	digestLockKey = "lock:pantry-digest"
	jobTimeout    = 2 * time.Minute
)

// DigestRunner runs one digest pass over every pantry.
type DigestRunner interface {
	RunDigest(ctx context.Context) (reporting.DigestResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	digest   DigestRunner
	locker   Locker
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. locker may be nil, in which
// case every replica runs the digest.
func NewScheduler(cfg config.ReportingConfig, digest DigestRunner, locker Locker, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		digest:   digest,
		locker:   locker,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("digest_schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.RunDigestOnce(ctx)
}

// RunDigestOnce runs the digest under the cluster lock when one is
// configured. It reports whether the digest ran.
func (s *Scheduler) RunDigestOnce(ctx context.Context) bool {
	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, digestLockKey, jobTimeout)
		if err == ErrLockHeld {
			s.logger.Info("digest already running on another replica")
			return false
		}
		if err != nil {
			s.logger.Warn("could not obtain digest lock; running without it", zap.Error(err))
		} else {
			defer func() {
				if err := release(context.Background()); err != nil {
					s.logger.Warn("failed to release digest lock", zap.Error(err))
				}
			}()
		}
	}

	s.logger.Info("generating daily digest")
	if _, err := s.digest.RunDigest(ctx); err != nil {
		s.logger.Error("failed to run daily digest", zap.Error(err))
	}
	return true
}
