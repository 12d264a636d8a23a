// Package jobs runs background report warm-up after cache invalidation so
// the next read hits a fresh cache instead of recomputing inline.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task asks the workers to recompute one subject's cached reports.
type Task struct {
	SubjectID string
	Attempt   int
	Enqueued  time.Time
}

// Handler recomputes the reports of one subject.
type Handler func(context.Context, Task) error

// Config tunes the warm-up worker pool.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Warmer is an in-memory worker pool that coalesces warm-up requests per
// subject: invalidating the same subject twice before a worker picks it up
// queues only one recomputation.
type Warmer struct {
	handler Handler

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	tasks   chan Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending map[string]struct{}
	started bool
}

// NewWarmer builds a warmer around the provided handler.
func NewWarmer(handler Handler, cfg Config) *Warmer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Warmer{
		handler:    handler,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		tasks:      make(chan Task, cfg.BufferSize),
		pending:    make(map[string]struct{}),
	}
}

// Start begins worker consumption. Safe to call once.
func (w *Warmer) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker()
	}
	w.started = true
	w.logger.Sugar().Infow("report warmer started", "workers", w.workers)
}

// Stop cancels workers and waits for them to exit.
func (w *Warmer) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.mu.Unlock()
	w.wg.Wait()
	w.logger.Sugar().Infow("report warmer stopped")
}

// Enqueue schedules a subject for warm-up. A subject already waiting in the
// queue is not scheduled again.
func (w *Warmer) Enqueue(subjectID string) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return fmt.Errorf("report warmer not started")
	}
	if _, dup := w.pending[subjectID]; dup {
		w.mu.Unlock()
		return nil
	}
	w.pending[subjectID] = struct{}{}
	ctx := w.ctx
	w.mu.Unlock()

	task := Task{SubjectID: subjectID, Enqueued: time.Now().UTC()}
	select {
	case <-ctx.Done():
		w.clearPending(subjectID)
		return fmt.Errorf("report warmer stopped: %w", ctx.Err())
	case w.tasks <- task:
		return nil
	}
}

func (w *Warmer) worker() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.tasks:
			w.clearPending(task.SubjectID)
			if err := w.handler(w.ctx, task); err != nil {
				w.handleFailure(task, err)
			}
		}
	}
}

func (w *Warmer) clearPending(subjectID string) {
	w.mu.Lock()
	delete(w.pending, subjectID)
	w.mu.Unlock()
}

func (w *Warmer) handleFailure(task Task, err error) {
	task.Attempt++
	if task.Attempt > w.maxRetries {
		w.logger.Sugar().Errorw("report warm-up exceeded retries", "subject_id", task.SubjectID, "error", err)
		return
	}
	w.logger.Sugar().Warnw("report warm-up failed, retrying", "subject_id", task.SubjectID, "attempt", task.Attempt, "error", err)

	go func(t Task) {
		timer := time.NewTimer(w.retryDelay)
		defer timer.Stop()
		select {
		case <-w.ctx.Done():
			return
		case <-timer.C:
			w.mu.Lock()
			if _, dup := w.pending[t.SubjectID]; dup {
				w.mu.Unlock()
				return
			}
			w.pending[t.SubjectID] = struct{}{}
			w.mu.Unlock()
			select {
			case <-w.ctx.Done():
				w.clearPending(t.SubjectID)
			case w.tasks <- t:
			}
		}
	}(task)
}
