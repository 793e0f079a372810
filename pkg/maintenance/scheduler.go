package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/tvprovider/pkg/sysclock"
)

// Job names.
const (
	JobCheckpoint = "checkpoint"
	JobDrift      = "drift"
)

// Config contains the maintenance schedules.
type Config struct {
	// CheckpointSchedule is a cron expression for WAL checkpoints.
	CheckpointSchedule string

	// DriftSchedule is a cron expression for boot epoch sampling.
	DriftSchedule string

	// DriftTolerance is the largest boot epoch movement between two samples
	// that is not reported.
	DriftTolerance time.Duration
}

// Checkpointer is implemented by stores with a write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// Clock supplies the wall clock and the time since boot.
type Clock interface {
	Now() time.Time
	SinceBoot() (time.Duration, error)
}

// Recorder receives job results. metrics.Collector implements it.
type Recorder interface {
	RecordCheckpoint(err error)
	RecordBootEpoch(millis int64)
}

// Scheduler runs the maintenance jobs.
type Scheduler struct {
	config   Config
	store    Checkpointer
	clock    Clock
	recorder Recorder

	cron    *cron.Cron
	entries map[string]cron.EntryID
	mu      sync.Mutex
	logger  *slog.Logger
	running bool

	// stopCh is closed by Stop; watchDone is closed when the goroutine
	// tracking the Start context exits.
	stopCh    chan struct{}
	watchDone chan struct{}

	driftMu    sync.Mutex
	lastEpoch  int64
	haveSample bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithRecorder registers a recorder for job results.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// NewScheduler creates a scheduler. store may be nil, in which case the
// checkpoint job is never scheduled.
func NewScheduler(cfg Config, store Checkpointer, opts ...Option) *Scheduler {
	s := &Scheduler{
		config:  cfg,
		store:   store,
		clock:   sysclock.System,
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
		logger:  slog.Default().With("component", "maintenance.scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the configured jobs and starts the cron runner. With no
// job configured it does nothing and the scheduler stays stopped. The
// scheduler stops when ctx is cancelled or Stop is called, whichever comes
// first. A stopped scheduler can be started again.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	type job struct {
		name     string
		schedule string
		run      func()
	}
	var jobs []job
	if s.config.CheckpointSchedule != "" && s.store != nil {
		jobs = append(jobs, job{JobCheckpoint, s.config.CheckpointSchedule, func() { _ = s.RunCheckpoint(ctx) }})
	}
	if s.config.DriftSchedule != "" {
		jobs = append(jobs, job{JobDrift, s.config.DriftSchedule, func() { _, _ = s.SampleDrift() }})
	}

	if len(jobs) == 0 {
		s.logger.Info("no maintenance job configured, skipping scheduler")
		return nil
	}

	for _, j := range jobs {
		if _, err := cron.ParseStandard(j.schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q for %s job: %w", j.schedule, j.name, err)
		}
	}

	for _, j := range jobs {
		id, err := s.cron.AddFunc(j.schedule, j.run)
		if err != nil {
			for _, added := range s.entries {
				s.cron.Remove(added)
			}
			s.entries = make(map[string]cron.EntryID)
			return fmt.Errorf("failed to schedule %s job: %w", j.name, err)
		}
		s.entries[j.name] = id
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("maintenance scheduler started",
		"checkpoint_schedule", s.config.CheckpointSchedule,
		"drift_schedule", s.config.DriftSchedule,
		"drift_tolerance", s.config.DriftTolerance,
	)

	stopCh := make(chan struct{})
	watchDone := make(chan struct{})
	s.stopCh = stopCh
	s.watchDone = watchDone

	go func() {
		defer close(watchDone)
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopCh:
		}
	}()

	return nil
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	<-s.cron.Stop().Done()
	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = make(map[string]cron.EntryID)
	s.running = false
	s.logger.Info("maintenance scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next run time of job, or nil if it is not scheduled.
func (s *Scheduler) NextRun(job string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[job]
	if !ok {
		return nil
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// RunCheckpoint runs the checkpoint job once.
func (s *Scheduler) RunCheckpoint(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("no checkpointer configured")
	}

	start := time.Now()
	err := s.store.Checkpoint(ctx)
	if s.recorder != nil {
		s.recorder.RecordCheckpoint(err)
	}
	if err != nil {
		s.logger.Error("checkpoint failed", "error", err)
		return err
	}

	s.logger.Debug("checkpoint completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// SampleDrift runs the drift job once. It returns the boot epoch movement
// since the previous sample (zero for the first sample).
func (s *Scheduler) SampleDrift() (time.Duration, error) {
	since, err := s.clock.SinceBoot()
	if err != nil {
		s.logger.Error("boot clock unavailable", "error", err)
		return 0, err
	}
	epoch := sysclock.BootEpoch(s.clock.Now(), since)

	if s.recorder != nil {
		s.recorder.RecordBootEpoch(epoch)
	}

	s.driftMu.Lock()
	defer s.driftMu.Unlock()

	var drift time.Duration
	if s.haveSample {
		drift = time.Duration(epoch-s.lastEpoch) * time.Millisecond
	}
	s.lastEpoch = epoch
	s.haveSample = true

	if drift > s.config.DriftTolerance || -drift > s.config.DriftTolerance {
		s.logger.Warn("boot epoch moved, wall clock was adjusted",
			"drift_ms", drift.Milliseconds(),
			"boot_epoch", epoch,
			"tolerance", s.config.DriftTolerance,
		)
	}
	return drift, nil
}
