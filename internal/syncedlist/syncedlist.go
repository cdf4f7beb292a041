// Package syncedlist keeps an ordered, id-unique list in memory and mirrors
// every change to a single key of durable storage.
//
// Mutations apply to memory immediately. The full list is then serialized and
// handed to a single writer goroutine, so storage sees snapshots strictly in
// the order the mutations happened. Storage failures never roll back memory;
// they are logged, counted and reported by Flush.
package syncedlist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/storage"
)

// Sentinel errors.
var (
	// ErrCorrupt is returned by Load when the stored value cannot be decoded.
	ErrCorrupt = errors.New("stored list is corrupt")
	// ErrClosed is reported for mutations made after Close.
	ErrClosed = errors.New("list is closed")
)

// State is the lifecycle state of a List.
type State int

const (
	// StateUninitialized means Load has not completed yet.
	StateUninitialized State = iota
	// StateReady means the list holds loaded (possibly empty) contents.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

const (
	defaultQueueSize    = 64
	defaultWriteTimeout = 5 * time.Second
)

// Options configures a List.
type Options[T any, K comparable] struct {
	// Key is the storage key holding the serialized list.
	Key string
	// ID extracts the identity of an item.
	ID func(T) K
	// Encode serializes the whole list.
	Encode func([]T) []byte
	// Decode parses a serialized list.
	Decode func([]byte) ([]T, error)

	Logger        *zap.Logger
	MeterProvider metric.MeterProvider
	// WriteTimeout bounds a single storage write. Defaults to 5s.
	WriteTimeout time.Duration
	// QueueSize is the number of snapshots that may wait for the writer.
	QueueSize int
}

type writeJob struct {
	data []byte
	// ack is set for barriers; the writer sends the first error seen since
	// the previous consuming barrier.
	ack chan error
	// keep leaves the reported error pending for the next barrier.
	keep bool
}

// List is an in-memory list mirrored to storage. It is safe for concurrent use.
type List[T any, K comparable] struct {
	kv           storage.KV
	key          string
	id           func(T) K
	encode       func([]T) []byte
	decode       func([]byte) ([]T, error)
	lg           *zap.Logger
	writeTimeout time.Duration

	writes   metric.Int64Counter
	failures metric.Int64Counter
	attrs    metric.MeasurementOption

	mu     sync.RWMutex
	items  []T
	state  State
	closed bool

	queue     chan writeJob
	done      chan struct{}
	closeOnce sync.Once
	lastErr   atomic.Pointer[error]
}

// New creates a List and starts its writer goroutine. Call Close to stop it.
func New[T any, K comparable](kv storage.KV, opts Options[T, K]) *List[T, K] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = noop.NewMeterProvider()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	meter := opts.MeterProvider.Meter("github.com/xenking/catalog-feed/internal/syncedlist")
	// Instrument creation only fails on invalid names; fall back to no-ops.
	writes, err := meter.Int64Counter("feed.store.writes",
		metric.WithDescription("Snapshots written to durable storage"))
	if err != nil {
		writes, _ = noop.NewMeterProvider().Meter("").Int64Counter("feed.store.writes")
	}
	failures, err := meter.Int64Counter("feed.store.write_failures",
		metric.WithDescription("Snapshots that failed to reach durable storage"))
	if err != nil {
		failures, _ = noop.NewMeterProvider().Meter("").Int64Counter("feed.store.write_failures")
	}

	l := &List[T, K]{
		kv:           kv,
		key:          opts.Key,
		id:           opts.ID,
		encode:       opts.Encode,
		decode:       opts.Decode,
		lg:           opts.Logger.With(zap.String("key", opts.Key)),
		writeTimeout: opts.WriteTimeout,
		writes:       writes,
		failures:     failures,
		attrs:        metric.WithAttributes(attribute.String("key", opts.Key)),
		queue:        make(chan writeJob, opts.QueueSize),
		done:         make(chan struct{}),
	}
	go l.run()
	return l
}

// run is the single writer. It persists snapshots in queue order.
func (l *List[T, K]) run() {
	defer close(l.done)

	var pending error
	for job := range l.queue {
		if job.ack != nil {
			job.ack <- pending
			if !job.keep {
				pending = nil
			}
			continue
		}
		if err := l.write(job.data); err != nil && pending == nil {
			pending = err
		}
	}
}

func (l *List[T, K]) write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	l.writes.Add(ctx, 1, l.attrs)
	if err := l.kv.Set(ctx, l.key, data); err != nil {
		err = errors.Wrap(err, "persist list")
		l.failures.Add(ctx, 1, l.attrs)
		l.lastErr.Store(&err)
		l.lg.Error("Failed to persist list", zap.Error(err))
		return err
	}
	return nil
}

// Load replaces the in-memory contents with the stored list. A missing key
// yields an empty list and no error. Read or decode failures also yield an
// empty list; the error is returned so the caller can surface it. The list
// is Ready after Load in every case.
//
// Entries repeating an earlier id are dropped to restore uniqueness.
func (l *List[T, K]) Load(ctx context.Context) error {
	// Pending writes must land first so Load observes them. Their errors stay
	// queued for the next Flush or Close.
	_ = l.barrier(ctx, true)

	items, err := l.read(ctx)

	l.mu.Lock()
	l.items = items
	l.state = StateReady
	l.mu.Unlock()

	if err != nil {
		l.lg.Warn("Failed to load list, starting empty", zap.Error(err))
		return err
	}
	l.lg.Debug("Loaded list", zap.Int("count", len(items)))
	return nil
}

func (l *List[T, K]) read(ctx context.Context) ([]T, error) {
	data, err := l.kv.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read list")
	}

	items, err := l.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode list: %w: %w", ErrCorrupt, err)
	}
	return l.dedupe(items), nil
}

func (l *List[T, K]) dedupe(items []T) []T {
	seen := make(map[K]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		id := l.id(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}

// State returns the lifecycle state.
func (l *List[T, K]) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Add appends item unless an item with the same id is present. It reports
// whether the list changed.
func (l *List[T, K]) Add(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexLocked(l.id(item)) >= 0 {
		return false
	}
	l.items = append(l.items, item)
	l.persistLocked()
	return true
}

// Remove deletes every item with the given id and returns how many were
// removed.
func (l *List[T, K]) Remove(id K) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if l.id(item) != id {
			kept = append(kept, item)
		}
	}
	removed := len(l.items) - len(kept)
	if removed == 0 {
		return 0
	}
	l.items = kept
	l.persistLocked()
	return removed
}

// Toggle removes item if its id is present and adds it otherwise. It reports
// whether the item is present afterwards.
func (l *List[T, K]) Toggle(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.id(item)
	if i := l.indexLocked(id); i >= 0 {
		l.items = append(l.items[:i:i], l.items[i+1:]...)
		l.persistLocked()
		return false
	}
	l.items = append(l.items, item)
	l.persistLocked()
	return true
}

// Contains reports whether an item with id is present.
func (l *List[T, K]) Contains(id K) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexLocked(id) >= 0
}

// Get returns the item with id.
func (l *List[T, K]) Get(id K) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Items returns a copy of the list in insertion order.
func (l *List[T, K]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T, K]) indexLocked(id K) int {
	for i, item := range l.items {
		if l.id(item) == id {
			return i
		}
	}
	return -1
}

// persistLocked enqueues a snapshot. Holding mu while sending keeps queue
// order equal to mutation order.
func (l *List[T, K]) persistLocked() {
	if l.closed {
		err := ErrClosed
		l.lastErr.Store(&err)
		l.lg.Warn("List closed, change not persisted")
		return
	}
	l.queue <- writeJob{data: l.encode(l.items)}
}

// Flush waits until every snapshot enqueued before the call has been written
// and returns the first write error since the previous Flush.
func (l *List[T, K]) Flush(ctx context.Context) error {
	return l.barrier(ctx, false)
}

func (l *List[T, K]) barrier(ctx context.Context, keep bool) error {
	ack := make(chan error, 1)

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return ErrClosed
	}
	select {
	case l.queue <- writeJob{ack: ack, keep: keep}:
	case <-ctx.Done():
		l.mu.RUnlock()
		return ctx.Err()
	}
	l.mu.RUnlock()

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// lastError returns the most recent persistence error, or nil.
func (l *List[T, K]) lastError() error {
	if p := l.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Close drains pending writes and stops the writer. It returns the first
// write error since the previous Flush. Close is safe to call more than once.
func (l *List[T, K]) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.Flush(context.Background())

		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()

		<-l.done
	})
	return err
}
