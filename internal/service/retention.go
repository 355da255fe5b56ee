package service

import (
	"context"
	"errors"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/repository"

	"github.com/robfig/cron/v3"
)

const defaultRetention = 365 * 24 * time.Hour

var ErrEmptySchedule = errors.New("retention schedule is empty")

type RetentionService struct {
	trackingRepo repository.TrackingRepo
	maxAge       time.Duration
	log          *logger.Logger
}

func NewRetentionService(trackingRepo repository.TrackingRepo, maxAge time.Duration, log *logger.Logger) *RetentionService {
	if maxAge <= 0 {
		maxAge = defaultRetention
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RetentionService{trackingRepo: trackingRepo, maxAge: maxAge, log: log}
}

// Prune deletes tracking records that occurred before now - maxAge.
func (s *RetentionService) Prune(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.UTC().Add(-s.maxAge)
	n, err := s.trackingRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Infow("tracking_pruned", "deleted", n, "cutoff", cutoff)
	return n, nil
}

// Scheduler runs Prune on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	retention Retention
	log       *logger.Logger
	timeout   time.Duration
}

func NewScheduler(retention Retention, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:      cron.New(),
		retention: retention,
		log:       log,
		timeout:   time.Minute,
	}
}

// Start registers the prune job with spec (standard cron or @every/@daily
// descriptors) and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		return ErrEmptySchedule
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("retention_scheduler_started", "schedule", spec)
	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Infow("retention_scheduler_stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.retention.Prune(ctx, time.Now()); err != nil {
		s.log.Errorw("retention_prune_failed", "err", err)
	}
}
