package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/stylecast-backend/internal/logger"
)

// ErrQueueFull is returned by Submit when the backlog is at capacity. Callers
// surface it as a service-unavailable condition rather than blocking.
var ErrQueueFull = errors.New("workerpool: queue full")

var ErrStopped = errors.New("workerpool: stopped")

type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed set of goroutines with a bounded queue.
// Submission never blocks; saturation is reported to the caller instead.
type Pool struct {
	log     *logger.Logger
	workers int

	// mu orders Submit against Stop: the queue is only closed under the same
	// lock that guards the send, so Submit can never hit a closed channel.
	mu      sync.Mutex
	queue   chan Task
	stopped bool

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewPool(workers, queueSize int, baseLog *logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		log:     baseLog.With("component", "WorkerPool"),
		workers: workers,
		queue:   make(chan Task, queueSize),
	}
}

// Start launches the workers. They run until ctx is cancelled or Stop drains
// the queue.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.run(ctx, i)
		}
		p.log.Info("Worker pool started", "workers", p.workers, "queueCapacity", cap(p.queue))
	})
}

func (p *Pool) run(ctx context.Context, workerID int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, open := <-p.queue:
			if !open {
				return
			}
			p.execute(ctx, workerID, task)
		}
	}
}

func (p *Pool) execute(ctx context.Context, workerID int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Worker recovered from panic", "workerID", workerID, "panic", r)
		}
	}()
	task(ctx)
}

// Submit enqueues a task without blocking.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop rejects new submissions and waits for in-flight and queued tasks.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.queue)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// QueueDepth is used by diagnostics and tests.
func (p *Pool) QueueDepth() int { return len(p.queue) }
