package tenant

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type cacheWrite struct {
	key   string
	value string
	ttl   time.Duration
}

// repopulator applies cache writes in the background so lookups never block
// on Redis SET latency. The queue is bounded; when it is full the write is
// dropped and counted, never the lookup. Dropping a write only means the next
// lookup for that key does one more database read.
type repopulator struct {
	redis        redis.UniversalClient
	logger       *slog.Logger
	writeTimeout time.Duration

	ch        chan cacheWrite
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newRepopulator(
	redis redis.UniversalClient,
	logger *slog.Logger,
	queueSize int,
	workers int,
	writeTimeout time.Duration,
) *repopulator {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}

	r := &repopulator{
		redis:        redis,
		logger:       logger,
		writeTimeout: writeTimeout,
		ch:           make(chan cacheWrite, queueSize),
		done:         make(chan struct{}),
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.run()
	}

	return r
}

func (r *repopulator) run() {
	defer r.wg.Done()

	for {
		select {
		case w := <-r.ch:
			r.apply(w)
		case <-r.done:
			for {
				select {
				case w := <-r.ch:
					r.apply(w)
				default:
					return
				}
			}
		}
	}
}

func (r *repopulator) apply(w cacheWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.redis.Set(ctx, w.key, w.value, w.ttl).Err(); err != nil {
		r.logger.Warn("tenant cache repopulation failed",
			slog.String("key", w.key),
			slog.String("error", err.Error()),
		)
	}
}

// enqueue hands a cache write to the workers without blocking. Writes offered
// after Close, or while the queue is full, are dropped.
func (r *repopulator) enqueue(w cacheWrite) {
	if r == nil || r.closed.Load() {
		return
	}

	select {
	case r.ch <- w:
	case <-r.done:
	default:
		r.dropped.Add(1)
	}
}

// close stops the workers after draining writes already queued.
func (r *repopulator) close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
		r.wg.Wait()
	})
}

func (r *repopulator) droppedCount() uint64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}
