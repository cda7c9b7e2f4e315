package goBasket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goBasket/cachekeys"
	"github.com/MrEthical07/goBasket/password"
	"github.com/MrEthical07/goBasket/session"
	"github.com/MrEthical07/goBasket/tenant"
)

// Engine wires the user directory, the session store, the tenant resolver,
// and the password hasher behind one façade. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	users    UserDirectory
	sessions *session.Store
	tenants  *tenant.Resolver
	hasher   *password.Argon2
	metrics  *Metrics
}

// NewEngine validates cfg, builds the session store and tenant resolver on
// the given Redis client, and returns a ready engine. Call [Engine.Close] to
// stop the resolver's background workers.
func NewEngine(
	cfg Config,
	logger *slog.Logger,
	users UserDirectory,
	tenantDB tenant.Queries,
	redisClient redis.UniversalClient,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if users == nil || tenantDB == nil || redisClient == nil {
		return nil, fmt.Errorf("%w: missing dependency", ErrEngineNotReady)
	}
	if logger == nil {
		logger = slog.Default()
	}

	hasher, err := password.NewArgon2(cfg.Password)
	if err != nil {
		return nil, err
	}

	keys := cachekeys.New(cfg.Cache.Namespace)

	return &Engine{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		sessions: session.NewStore(redisClient, keys, cfg.Session.TTL),
		tenants:  tenant.NewResolver(tenantDB, redisClient, keys, logger, cfg.Tenant),
		hasher:   hasher,
		metrics:  NewMetrics(cfg.MetricsEnabled),
	}, nil
}

// Login verifies email and pass against the user directory, and on success
// creates a session and returns its token alongside the user.
//
// Unknown emails and wrong passwords both come back as
// [ErrInvalidCredentials]; accounts without a password hash come back as
// [ErrPasswordLoginUnsupported].
func (e *Engine) Login(ctx context.Context, email, pass string) (string, *UserRecord, error) {
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metrics.Inc(MetricLoginFailure)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.PasswordHash == nil {
		e.metrics.Inc(MetricLoginFailure)
		return "", nil, ErrPasswordLoginUnsupported
	}
	if !e.hasher.Verify(pass, *user.PasswordHash) {
		e.metrics.Inc(MetricLoginFailure)
		return "", nil, ErrInvalidCredentials
	}

	token, err := e.sessions.Create(ctx, session.ForUser(user.ID, user.Email))
	if err != nil {
		return "", nil, err
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.metrics.Inc(MetricSessionCreated)
	e.logger.Info("user logged in", slog.String("user_id", user.ID.String()))

	return token, user, nil
}

// Register hashes pass and creates the account. Duplicate emails come back
// as [ErrAccountExists].
func (e *Engine) Register(ctx context.Context, email, pass string) (*UserRecord, error) {
	hash, err := e.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user, err := e.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.metrics.Inc(MetricRegisterDuplicate)
		}
		return nil, err
	}

	e.metrics.Inc(MetricRegisterSuccess)
	e.logger.Info("user registered", slog.String("user_id", user.ID.String()))

	return user, nil
}

// Logout invalidates the session token. Logging out an already-dead token
// succeeds; logout is idempotent.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if err := e.sessions.Delete(ctx, token); err != nil {
		return err
	}
	e.metrics.Inc(MetricLogout)
	return nil
}

// Session resolves a token to its live session. Missing or corrupt sessions
// come back as [ErrUnauthenticated]; a corrupt entry is also deleted so the
// token dies rather than failing forever.
func (e *Engine) Session(ctx context.Context, token string) (*session.Session, error) {
	sess, err := e.sessions.Get(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			e.metrics.Inc(MetricSessionLookupMiss)
			return nil, ErrUnauthenticated
		case errors.Is(err, session.ErrSessionCorrupt):
			e.metrics.Inc(MetricSessionLookupCorrupt)
			e.logger.Warn("deleting corrupt session entry")
			if delErr := e.sessions.Delete(ctx, token); delErr != nil {
				e.logger.Warn("corrupt session cleanup failed", slog.String("error", delErr.Error()))
			}
			return nil, ErrUnauthenticated
		default:
			return nil, err
		}
	}

	e.metrics.Inc(MetricSessionLookupHit)
	return sess, nil
}

// Tenants exposes the tenant resolver for transports that gate requests on
// tenant identity.
func (e *Engine) Tenants() *tenant.Resolver {
	return e.tenants
}

// SessionTTL returns the fixed session lifetime.
func (e *Engine) SessionTTL() time.Duration {
	return e.sessions.TTL()
}

// MetricsSnapshot merges the engine's counter table with the tenant
// resolver's lookup counters into one snapshot.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	snap := e.metrics.Snapshot()
	if !e.metrics.Enabled() {
		return snap
	}

	stats := e.tenants.Stats()
	snap.Counters[MetricTenantCacheHit] = stats.CacheHits
	snap.Counters[MetricTenantCacheMiss] = stats.CacheMisses
	snap.Counters[MetricTenantNegativeHit] = stats.NegativeHits
	snap.Counters[MetricTenantDBRead] = stats.DBReads

	return snap
}

// RepopulateDropped returns how many tenant cache writes were dropped
// because the repopulation queue was full.
func (e *Engine) RepopulateDropped() uint64 {
	return e.tenants.RepopulateDropped()
}

// Close stops the tenant resolver's background workers, draining writes
// already queued.
func (e *Engine) Close() {
	e.tenants.Close()
}
