// Package buffer provides a mutex guarded stack or queue over a deque, configured from a config tree.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/myLogic207/godeque/config"
	"github.com/myLogic207/godeque/deque"
	"github.com/myLogic207/godeque/logger"
)

type BufferMode int

const (
	MODE_STACK BufferMode = iota
	MODE_QUEUE
)

func (m BufferMode) String() string {
	switch m {
	case MODE_STACK:
		return "STACK"
	case MODE_QUEUE:
		return "QUEUE"
	default:
		return "UNKNOWN"
	}
}

type StoreKind int

const (
	// STORE_GROWING never drops, it grows when an end is exhausted
	STORE_GROWING StoreKind = iota
	// STORE_FIXED keeps SIZE elements and evicts the oldest on overflow
	STORE_FIXED
)

func (k StoreKind) String() string {
	switch k {
	case STORE_GROWING:
		return "GROWING"
	case STORE_FIXED:
		return "FIXED"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidPolicy = errors.New("invalid capacity policy")
	ErrGetElement    = errors.New("cannot get element from buffer")
	ErrAddElement    = errors.New("cannot add element to buffer")
	ErrInitBuffer    = errors.New("cannot initialize buffer")
	ErrBufferEmpty   = errors.New("buffer is empty")
	ErrBufferClosed  = errors.New("buffer is shut down")

	bufferConfigBase = map[string]interface{}{
		"LOGGER": map[string]interface{}{
			"PREFIX": "BUFFER",
		},
		"MODE":   MODE_QUEUE.String(),
		"STORE":  STORE_GROWING.String(),
		"POLICY": "HALFFULL",
		"SIZE":   deque.DefaultCapacity,
	}
)

type bufferStore[T comparable] interface {
	deque.Deque[T]
	add(element T)
	get() (T, bool)
	peek() (T, bool)
}

// Buffer is safe for concurrent use. The zero value is ready for Init.
type Buffer[T comparable] struct {
	mu      sync.Mutex
	id      uuid.UUID
	mode    BufferMode
	kind    StoreKind
	store   bufferStore[T]
	stats   *Statistics
	metrics *bufferMetrics
	logger  logger.Logger
	opts    *bufferOptions[T]
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewBuffer creates and initializes a buffer. It shuts down when ctx is cancelled.
func NewBuffer[T comparable](ctx context.Context, options *config.Config, opts ...Option[T]) (*Buffer[T], error) {
	buffer := &Buffer[T]{
		opts: applyOptions(opts...),
	}
	if err := buffer.Init(ctx, options); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (b *Buffer[T]) Init(ctx context.Context, options *config.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store != nil {
		return errors.Join(ErrInitBuffer, errors.New("already initialized"))
	}
	if b.opts == nil {
		b.opts = applyOptions[T]()
	}

	cfg, err := config.WithInitialValuesAndOptions(ctx, bufferConfigBase, options)
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}
	rawMode, _ := cfg.Get(ctx, "MODE")
	mode, err := resolveMode(rawMode)
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}
	rawKind, _ := cfg.Get(ctx, "STORE")
	kind, err := resolveStoreKind(rawKind)
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}
	size, err := cfg.GetInt(ctx, "SIZE")
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}
	loggerConfig, err := cfg.GetConfig(ctx, "LOGGER")
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}
	log, err := logger.Init(ctx, loggerConfig)
	if err != nil {
		return errors.Join(ErrInitBuffer, err)
	}

	b.id = uuid.New()
	b.mode = mode
	b.kind = kind
	b.logger = log
	b.stats = NewStatistics()
	b.ctx, b.cancel = context.WithCancel(ctx)

	store, err := b.newStore(ctx, cfg, size)
	if err != nil {
		b.cancel()
		return errors.Join(ErrInitBuffer, err)
	}
	if b.opts.registerer != nil {
		component := b.opts.component
		if component == "" {
			component = b.id.String()
		}
		if b.metrics, err = newBufferMetrics(b.opts.registerer, component); err != nil {
			b.cancel()
			return err
		}
		b.metrics.updateSize(0, store.Capacity())
	}
	b.store = store

	b.logger.Info(ctx, "created buffer", "id", b.id, "mode", mode, "store", kind, "size", size)
	go b.contextDone(b.ctx)
	return nil
}

func (b *Buffer[T]) newStore(ctx context.Context, cfg *config.Config, size int) (bufferStore[T], error) {
	var store deque.Deque[T]
	var err error
	switch b.kind {
	case STORE_FIXED:
		store, err = deque.NewCircular[T](size, deque.WithDropCallback[T](b.onDrop))
	case STORE_GROWING:
		policy := b.opts.policy
		if policy == nil {
			rawPolicy, _ := cfg.Get(ctx, "POLICY")
			if policy, err = resolvePolicy(rawPolicy); err != nil {
				return nil, err
			}
		}
		store, err = deque.NewGrowable[T](size, deque.WithCapacityPolicy[T](policy))
	}
	if err != nil {
		return nil, err
	}
	if b.mode == MODE_STACK {
		return stackBuffer[T]{store}, nil
	}
	return queueBuffer[T]{store}, nil
}

func resolveMode(raw string) (BufferMode, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case MODE_STACK.String():
		return MODE_STACK, nil
	case MODE_QUEUE.String():
		return MODE_QUEUE, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

func resolveStoreKind(raw string) (StoreKind, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case STORE_GROWING.String():
		return STORE_GROWING, nil
	case STORE_FIXED.String():
		return STORE_FIXED, nil
	default:
		return 0, fmt.Errorf("%w: store %q", ErrInvalidMode, raw)
	}
}

func resolvePolicy(raw string) (deque.CapacityPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "HALFFULL":
		return deque.HalfFullPolicy, nil
	case "ALWAYSGROW":
		return deque.AlwaysGrowPolicy, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, raw)
	}
}

// onDrop runs inside Add while the buffer is locked
func (b *Buffer[T]) onDrop(element T) {
	b.stats.Drop()
	if b.metrics != nil {
		b.metrics.recordDrop()
	}
	b.logger.Debug(b.ctx, "buffer full, dropped oldest element", "id", b.id)
	if b.opts.dropCallback != nil {
		b.opts.dropCallback(element)
	}
}

func (b *Buffer[T]) contextDone(ctx context.Context) {
	<-ctx.Done()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
}

// release frees the store, the caller holds the lock
func (b *Buffer[T]) release() error {
	if b.store == nil {
		return nil
	}
	b.logger.Info(b.ctx, "shutting down buffer", "id", b.id, "pending", b.store.Len())
	b.store = nil
	if b.metrics != nil {
		b.metrics.unregister()
		b.metrics = nil
	}
	return b.logger.Shutdown(context.Background())
}

func (b *Buffer[T]) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.release()
	if b.cancel != nil {
		b.cancel()
	}
	return err
}

func (b *Buffer[T]) Add(element T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return errors.Join(ErrAddElement, ErrBufferClosed)
	}
	b.store.add(element)
	b.stats.Write()
	b.stats.UpdateSize(b.store.Len())
	if b.metrics != nil {
		b.metrics.recordWrite(b.store.Len(), b.store.Capacity())
	}
	return nil
}

// Get removes the next element, the newest in STACK mode and the oldest in QUEUE mode.
func (b *Buffer[T]) Get() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var element T
	if b.store == nil {
		return element, errors.Join(ErrGetElement, ErrBufferClosed)
	}
	element, ok := b.store.get()
	if !ok {
		return element, errors.Join(ErrGetElement, ErrBufferEmpty)
	}
	b.recordRead()
	return element, nil
}

func (b *Buffer[T]) Peek() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var element T
	if b.store == nil {
		return element, errors.Join(ErrGetElement, ErrBufferClosed)
	}
	element, ok := b.store.peek()
	if !ok {
		return element, errors.Join(ErrGetElement, ErrBufferEmpty)
	}
	b.stats.Peek()
	if b.metrics != nil {
		b.metrics.recordPeek()
	}
	return element, nil
}

// Drain removes up to limit elements in Get order, limit <= 0 drains everything.
func (b *Buffer[T]) Drain(limit int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return nil
	}
	if limit <= 0 || limit > b.store.Len() {
		limit = b.store.Len()
	}
	elements := make([]T, 0, limit)
	for len(elements) < limit {
		element, ok := b.store.get()
		if !ok {
			break
		}
		elements = append(elements, element)
		b.recordRead()
	}
	return elements
}

func (b *Buffer[T]) recordRead() {
	b.stats.Read()
	b.stats.UpdateSize(b.store.Len())
	if b.metrics != nil {
		b.metrics.recordRead(b.store.Len(), b.store.Capacity())
	}
}

func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return 0
	}
	return b.store.Len()
}

func (b *Buffer[T]) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return 0
	}
	return b.store.Capacity()
}

func (b *Buffer[T]) Stats() *Statistics {
	return b.stats
}

func (b *Buffer[T]) ID() uuid.UUID {
	return b.id
}

func (b *Buffer[T]) Mode() BufferMode {
	return b.mode
}
