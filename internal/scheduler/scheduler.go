package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/worker"
)

// Scheduler enqueues jobs on a worker pool at fixed intervals
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	skipped    atomic.Uint64
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval, starting one interval
// from now. A tick is skipped, not queued, while the pool has no room, so a
// slow job never builds a backlog.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	log := logger.FromContext(context.Background())
	log.Debug(LogMsgJobScheduled, "interval", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.workerPool.TryEnqueue(job) {
					s.skipped.Add(1)
					log.Warn(LogMsgTickSkipped, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Skipped returns the number of ticks dropped because the pool was full
func (s *Scheduler) Skipped() uint64 {
	return s.skipped.Load()
}

// Stop stops all scheduled jobs and waits for their tickers to exit.
// Jobs already queued on the pool are unaffected. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
		logger.FromContext(context.Background()).Debug(LogMsgStopped)
	})
}
