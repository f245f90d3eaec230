// Package workers runs tasks from a double ended backlog on a fixed number of goroutines.
package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/myLogic207/godeque/config"
	"github.com/myLogic207/godeque/deque"
	"github.com/myLogic207/godeque/logger"
	"golang.org/x/sync/errgroup"
)

var defaultConfig = map[string]interface{}{
	"WORKERS": 4,
	"BACKLOG": deque.DefaultCapacity,
	"LOGGER": map[string]interface{}{
		"PREFIX": "WORKERPOOL",
	},
}

// WorkerPool takes tasks from the front of its backlog. Add queues at the back,
// AddUrgent jumps the queue. The zero value is ready for Init.
type WorkerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	backlog *deque.Growable[Task]
	closed  bool

	logger    logger.Logger
	group     *errgroup.Group
	cancel    context.CancelFunc
	workers   int
	completed atomic.Int64
	failed    atomic.Int64
}

func NewWorkerPool(ctx context.Context, options *config.Config) (*WorkerPool, error) {
	pool := &WorkerPool{}
	if err := pool.Init(ctx, options); err != nil {
		return nil, err
	}
	return pool, nil
}

func (w *WorkerPool) Init(ctx context.Context, options *config.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backlog != nil {
		return &InitError{nested: errors.New("already initialized")}
	}
	cfg, err := config.WithInitialValuesAndOptions(ctx, defaultConfig, options)
	if err != nil {
		return &InitError{nested: err}
	}
	workers, err := cfg.GetInt(ctx, "WORKERS")
	if err != nil {
		return &InitError{nested: err}
	}
	if workers < 1 {
		return &InitError{nested: fmt.Errorf("need at least one worker, got %d", workers)}
	}
	backlogSize, err := cfg.GetInt(ctx, "BACKLOG")
	if err != nil {
		return &InitError{nested: err}
	}
	backlog, err := deque.NewGrowable[Task](backlogSize)
	if err != nil {
		return &InitError{nested: err}
	}
	loggerConfig, err := cfg.GetConfig(ctx, "LOGGER")
	if err != nil {
		return &InitError{nested: err}
	}
	log, err := logger.Init(ctx, loggerConfig)
	if err != nil {
		return &InitError{nested: err}
	}

	w.backlog = backlog
	w.cond = sync.NewCond(&w.mu)
	w.closed = false
	w.logger = log
	w.workers = workers
	w.group = &errgroup.Group{}

	poolCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.logger.Debug(ctx, "creating worker pool", "workers", workers, "backlog", backlogSize)
	for i := 0; i < workers; i++ {
		w.group.Go(func() error {
			return w.worker(poolCtx, i)
		})
	}
	go w.stopOnCancel(poolCtx)
	return nil
}

func (w *WorkerPool) stopOnCancel(ctx context.Context) {
	<-ctx.Done()
	w.close()
}

// close stops intake and wakes idle workers, it reports whether this call closed the pool
func (w *WorkerPool) close() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.backlog == nil {
		return false
	}
	w.closed = true
	w.cond.Broadcast()
	w.logger.Info(context.Background(), "stopping worker pool", "pending", w.backlog.Len())
	return true
}

// Shutdown stops intake and waits until the workers drained the backlog
func (w *WorkerPool) Shutdown() error {
	if w.group == nil {
		return ErrInitWorkerPool
	}
	w.close()
	err := w.group.Wait()
	w.cancel()
	w.logger.Info(context.Background(), "worker pool finished", "completed", w.completed.Load(), "failed", w.failed.Load())
	return errors.Join(err, w.logger.Shutdown(context.Background()))
}

func (w *WorkerPool) Add(task Task) error {
	return w.push(task, false)
}

// AddUrgent schedules task ahead of everything already waiting
func (w *WorkerPool) AddUrgent(task Task) error {
	return w.push(task, true)
}

func (w *WorkerPool) push(task Task, urgent bool) error {
	if task == nil {
		return ErrNilTask
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backlog == nil {
		return ErrInitWorkerPool
	}
	if w.closed {
		return ErrPoolClosed
	}
	if urgent {
		w.backlog.PushFront(task)
	} else {
		w.backlog.PushBack(task)
	}
	w.cond.Signal()
	return nil
}

// next blocks until a task is available, it returns false once the pool is closed and drained
func (w *WorkerPool) next() (Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.backlog.Len() == 0 && !w.closed {
		w.cond.Wait()
	}
	return w.backlog.PopFront()
}

func (w *WorkerPool) worker(ctx context.Context, id int) error {
	for {
		task, ok := w.next()
		if !ok {
			w.logger.Debug(ctx, "worker done", "worker", id)
			return nil
		}
		err := w.run(ctx, task)
		if err != nil {
			w.failed.Add(1)
			w.logger.Warn(ctx, "task failed", "worker", id, "error", err)
		} else {
			w.completed.Add(1)
		}
		task.OnFinish(ctx, err)
	}
}

func (w *WorkerPool) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task.Do(ctx)
}

func (w *WorkerPool) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backlog == nil {
		return 0
	}
	return w.backlog.Len()
}

func (w *WorkerPool) Workers() int {
	return w.workers
}

// Completed counts tasks whose Do returned nil
func (w *WorkerPool) Completed() int64 {
	return w.completed.Load()
}

func (w *WorkerPool) Failed() int64 {
	return w.failed.Load()
}
