package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	jobqueue "github.com/noah-isme/campus-nav-api/pkg/jobs"
)

// PurgeJobKind names the queued sweep.
const PurgeJobKind = "location.purge"

type locationPurger interface {
	PurgeLocationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type purgeRecorder interface {
	RecordLocationsPurged(n int64)
}

// SweeperConfig controls how often stale locations are removed.
type SweeperConfig struct {
	// TTL is the age after which a location is purged. Zero disables the sweeper.
	TTL time.Duration
	// Schedule is a standard cron expression or descriptor such as "@every 1m".
	Schedule   string
	MaxRetries int
	RetryDelay time.Duration
}

// LocationSweeper periodically deletes locations older than the TTL. Cron
// ticks enqueue a purge job so a slow store never stacks overlapping sweeps.
type LocationSweeper struct {
	store   locationPurger
	cfg     SweeperConfig
	metrics purgeRecorder
	logger  *zap.Logger
	now     func() time.Time

	cron  *cron.Cron
	queue *jobqueue.Queue
	mu    sync.Mutex
	entry cron.EntryID
}

// NewLocationSweeper validates the schedule and builds a stopped sweeper.
func NewLocationSweeper(store locationPurger, cfg SweeperConfig, metrics purgeRecorder, logger *zap.Logger) (*LocationSweeper, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("location sweeper requires a positive TTL")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &LocationSweeper{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.Named("location_sweeper"),
		now:     func() time.Time { return time.Now().UTC() },
		cron:    cron.New(),
	}
	s.queue = jobqueue.NewQueue("location-sweeper", s.handle, jobqueue.QueueConfig{
		Workers:    1,
		BufferSize: 1,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     s.logger,
	})
	return s, nil
}

// Start schedules the sweep. Jobs stop when ctx is cancelled or Stop is called.
func (s *LocationSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Start(ctx)
	entry, err := s.cron.AddFunc(s.cfg.Schedule, s.tick)
	if err != nil {
		s.queue.Stop()
		return fmt.Errorf("schedule location sweep: %w", err)
	}
	s.entry = entry
	s.cron.Start()
	s.logger.Info("location sweeper started", zap.String("schedule", s.cfg.Schedule), zap.Duration("ttl", s.cfg.TTL))
	return nil
}

// Stop waits for a running cron tick and the queue to drain.
func (s *LocationSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entry)
	s.queue.Stop()
	s.logger.Info("location sweeper stopped")
}

// RunOnce purges immediately and returns the number of removed locations.
func (s *LocationSweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.TTL)
	removed, err := s.store.PurgeLocationsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.RecordLocationsPurged(removed)
	}
	if removed > 0 {
		s.logger.Info("stale locations purged", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

func (s *LocationSweeper) tick() {
	if _, err := s.queue.Enqueue(PurgeJobKind); err != nil {
		if errors.Is(err, jobqueue.ErrQueueFull) {
			s.logger.Debug("previous sweep still pending, skipping tick")
			return
		}
		s.logger.Warn("failed to enqueue sweep", zap.Error(err))
	}
}

func (s *LocationSweeper) handle(ctx context.Context, _ jobqueue.Job) error {
	_, err := s.RunOnce(ctx)
	return err
}
