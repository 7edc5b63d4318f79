package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/osse101/armory/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	processed atomic.Uint64
	failed    atomic.Uint64
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	logger.FromContext(p.ctx).Debug(LogMsgPoolStarted, "workers", p.workers)
}

// worker is the worker loop. Jobs receive the pool context, which is
// canceled by Stop.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			if err := job.Process(p.ctx); err != nil {
				p.failed.Add(1)
				logger.FromContext(p.ctx).Error(LogMsgWorkerJobFailed, "error", err)
			}
			p.processed.Add(1)
		case <-p.ctx.Done():
			return
		}
	}
}

// Enqueue blocks until the job is queued or the pool stops.
// It reports whether the job was queued.
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TryEnqueue queues the job only if there is room
func (p *Pool) TryEnqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// that have not started are dropped. Safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		logger.FromContext(context.Background()).Debug(LogMsgPoolStopped,
			"processed", p.processed.Load(), "failed", p.failed.Load())
	})
}

// Processed returns the number of jobs that have finished, failed ones included
func (p *Pool) Processed() uint64 {
	return p.processed.Load()
}

// Failed returns the number of jobs that returned an error
func (p *Pool) Failed() uint64 {
	return p.failed.Load()
}
