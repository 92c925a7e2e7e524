package rate

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultSyncInterval = time.Hour

type Scheduler struct {
	syncer       *Syncer
	syncInterval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

// Start runs a sync immediately and then every syncInterval until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if _, syncErr := s.syncer.Sync(jobCtx, execID); syncErr != nil {
			logrus.Errorf("Rate sync job %s failed: %v", execID, syncErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.syncInterval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func NewScheduler(syncer *Syncer, syncInterval time.Duration) *Scheduler {
	if syncInterval <= 0 {
		syncInterval = defaultSyncInterval
	}
	return &Scheduler{syncer: syncer, syncInterval: syncInterval}
}
