package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goBasket/cachekeys"
)

// ErrDatabaseUnavailable is returned when a lookup had to reach the database
// and the database failed. Cache failures never surface through this error;
// they degrade to a database read instead.
var ErrDatabaseUnavailable = errors.New("tenant database unavailable")

// Row is a tenant as read from the relational store.
type Row struct {
	ID   uuid.UUID
	Slug string
}

// Queries is the database surface the resolver needs. Implementations return
// (nil, nil) for a tenant that does not exist; errors are reserved for the
// store itself failing.
type Queries interface {
	FindTenantBySlug(ctx context.Context, slug string) (*Row, error)
	FindTenantByID(ctx context.Context, id uuid.UUID) (*Row, error)
}

// Config controls cache lifetime and the repopulation queue.
type Config struct {
	// CacheTTL bounds how stale a cached resolution may be. Defaults to
	// 5 minutes.
	CacheTTL time.Duration

	// QueueSize caps pending asynchronous cache writes. Defaults to 256.
	QueueSize int

	// Workers is the number of goroutines applying cache writes. Defaults
	// to 1.
	Workers int

	// WriteTimeout bounds each background cache write. Defaults to 2s.
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 2 * time.Second
	}
	return c
}

// Stats is a point-in-time snapshot of resolver counters.
type Stats struct {
	CacheHits    uint64
	CacheMisses  uint64
	NegativeHits uint64
	DBReads      uint64
}

// Resolver answers tenant identity questions through a Redis cache backed by
// the relational store.
//
// Failure asymmetry: a cache that cannot be reached or holds garbage is
// treated as a miss and the database answers; a database that cannot be
// reached fails the lookup with [ErrDatabaseUnavailable]. Within CacheTTL a
// cached answer may lag the database, including negative answers for tenants
// created moments ago.
type Resolver struct {
	db     Queries
	redis  redis.UniversalClient
	keys   cachekeys.Codec
	logger *slog.Logger
	ttl    time.Duration
	repop  *repopulator

	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	negativeHits atomic.Uint64
	dbReads      atomic.Uint64
}

// NewResolver creates a [Resolver] and starts its repopulation workers. Call
// [Resolver.Close] to stop them.
func NewResolver(
	db Queries,
	redisClient redis.UniversalClient,
	keys cachekeys.Codec,
	logger *slog.Logger,
	cfg Config,
) *Resolver {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		db:     db,
		redis:  redisClient,
		keys:   keys,
		logger: logger,
		ttl:    cfg.CacheTTL,
		repop:  newRepopulator(redisClient, logger, cfg.QueueSize, cfg.Workers, cfg.WriteTimeout),
	}
}

// ResolveIDBySlug maps a tenant slug to its UUID. A nil result with a nil
// error means no such tenant; that answer is cached too, so repeated lookups
// of an unknown slug cost one database read per TTL window.
func (r *Resolver) ResolveIDBySlug(ctx context.Context, slug string) (*uuid.UUID, error) {
	key := r.keys.TenantSlug(slug)

	raw, err := r.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		outcome, decErr := decodeSlugOutcome(raw)
		if decErr == nil {
			if !outcome.Found {
				r.negativeHits.Add(1)
				return nil, nil
			}
			r.cacheHits.Add(1)
			id := outcome.ID
			return &id, nil
		}
		r.logger.Warn("discarding corrupt tenant cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("tenant cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	r.cacheMisses.Add(1)
	r.dbReads.Add(1)

	row, err := r.db.FindTenantBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}

	outcome := slugOutcome{}
	if row != nil {
		outcome = slugOutcome{ID: row.ID, Found: true}
	}
	r.repop.enqueue(cacheWrite{key: key, value: encodeSlugOutcome(outcome), ttl: r.ttl})

	if row == nil {
		return nil, nil
	}
	id := row.ID
	return &id, nil
}

// ConfirmTenantExists reports whether a tenant with the given UUID exists.
// Both answers are cached.
func (r *Resolver) ConfirmTenantExists(ctx context.Context, id uuid.UUID) (bool, error) {
	key := r.keys.TenantUUID(id.String())

	raw, err := r.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		exists, decErr := decodeExistence(raw)
		if decErr == nil {
			if !exists {
				r.negativeHits.Add(1)
				return false, nil
			}
			r.cacheHits.Add(1)
			return true, nil
		}
		r.logger.Warn("discarding corrupt tenant cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("tenant cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	r.cacheMisses.Add(1)
	r.dbReads.Add(1)

	row, err := r.db.FindTenantByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}

	exists := row != nil
	r.repop.enqueue(cacheWrite{key: key, value: encodeExistence(exists), ttl: r.ttl})

	return exists, nil
}

// Stats returns a snapshot of the resolver's lookup counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		CacheHits:    r.cacheHits.Load(),
		CacheMisses:  r.cacheMisses.Load(),
		NegativeHits: r.negativeHits.Load(),
		DBReads:      r.dbReads.Load(),
	}
}

// RepopulateDropped returns how many asynchronous cache writes were dropped
// because the queue was full.
func (r *Resolver) RepopulateDropped() uint64 {
	return r.repop.droppedCount()
}

// Close drains queued cache writes and stops the repopulation workers.
func (r *Resolver) Close() {
	r.repop.close()
}
