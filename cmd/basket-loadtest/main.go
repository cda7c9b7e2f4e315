package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goBasket/cachekeys"
	"github.com/MrEthical07/goBasket/session"
	"github.com/MrEthical07/goBasket/tenant"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 100000, "number of sessions to seed")
		tenants     = flag.Int("tenants", 1000, "number of tenants to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (session get + tenant resolve)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		namespace   = flag.String("namespace", "basket", "cache key namespace")
	)
	flag.Parse()

	if *sessions <= 0 || *tenants <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, tenants, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	keys := cachekeys.New(*namespace)
	store := session.NewStore(client, keys, 24*time.Hour)

	tokens := make([]string, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	for i := 0; i < *sessions; i++ {
		token, err := store.Create(ctx, session.ForUser(uuid.New(), fmt.Sprintf("user-%d@example.com", i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed session failed: %v\n", err)
			os.Exit(1)
		}
		tokens[i] = token
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	directory := seedTenants(*tenants)
	resolver := tenant.NewResolver(directory, client, keys, slog.Default(), tenant.Config{
		CacheTTL:  5 * time.Minute,
		QueueSize: 4096,
		Workers:   4,
	})
	defer resolver.Close()

	sessionStats := runSessionPhase(ctx, store, tokens, *ops, *concurrency)
	resolveStats := runResolvePhase(ctx, resolver, directory.slugs, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("session-get", sessionStats)
	printStats("tenant-resolve", resolveStats)
	fmt.Printf("repopulate dropped: %d\n", resolver.RepopulateDropped())
}

// staticTenants is an in-memory tenant backend so the tool can run without a
// database; pass a realistic slug set through it to exercise the cache path.
type staticTenants struct {
	bySlug map[string]tenant.Row
	byID   map[uuid.UUID]tenant.Row
	slugs  []string
}

func seedTenants(n int) *staticTenants {
	s := &staticTenants{
		bySlug: make(map[string]tenant.Row, n),
		byID:   make(map[uuid.UUID]tenant.Row, n),
		slugs:  make([]string, 0, n),
	}
	for i := 0; i < n; i++ {
		slug := fmt.Sprintf("shop-%d", i)
		row := tenant.Row{ID: uuid.New(), Slug: slug}
		s.bySlug[slug] = row
		s.byID[row.ID] = row
		s.slugs = append(s.slugs, slug)
	}
	return s
}

func (s *staticTenants) FindTenantBySlug(_ context.Context, slug string) (*tenant.Row, error) {
	if row, ok := s.bySlug[slug]; ok {
		return &row, nil
	}
	return nil, nil
}

func (s *staticTenants) FindTenantByID(_ context.Context, id uuid.UUID) (*tenant.Row, error) {
	if row, ok := s.byID[id]; ok {
		return &row, nil
	}
	return nil, nil
}

func runSessionPhase(ctx context.Context, store *session.Store, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(tokens))
				t0 := time.Now()
				_, err := store.Get(ctx, tokens[idx])
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runResolvePhase(ctx context.Context, resolver *tenant.Resolver, slugs []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(slugs))
				t0 := time.Now()
				id, err := resolver.ResolveIDBySlug(ctx, slugs[idx])
				d := time.Since(t0)
				if err != nil || id == nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
