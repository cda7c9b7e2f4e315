package tenant

import (
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	// No workers started: nothing drains the channel, so the second write
	// must hit the drop branch.
	r := &repopulator{
		ch:   make(chan cacheWrite, 1),
		done: make(chan struct{}),
	}

	r.enqueue(cacheWrite{key: "a", value: "1", ttl: time.Minute})
	r.enqueue(cacheWrite{key: "b", value: "2", ttl: time.Minute})
	r.enqueue(cacheWrite{key: "c", value: "3", ttl: time.Minute})

	if got := r.droppedCount(); got != 2 {
		t.Fatalf("expected 2 dropped writes, got %d", got)
	}
}

func TestCloseDrainsQueuedWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := newRepopulator(client, slog.Default(), 16, 2, time.Second)

	for i, key := range []string{"k1", "k2", "k3"} {
		r.enqueue(cacheWrite{key: key, value: "v", ttl: time.Duration(i+1) * time.Minute})
	}
	r.close()

	for _, key := range []string{"k1", "k2", "k3"} {
		if !mr.Exists(key) {
			t.Fatalf("write %s lost on close", key)
		}
	}
}

func TestEnqueueAfterCloseIsIgnored(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := newRepopulator(client, slog.Default(), 16, 1, time.Second)
	r.close()

	r.enqueue(cacheWrite{key: "late", value: "v", ttl: time.Minute})

	if mr.Exists("late") {
		t.Fatal("write applied after close")
	}
	if got := r.droppedCount(); got != 0 {
		t.Fatalf("post-close enqueue should not count as drop, got %d", got)
	}
}

func TestNilRepopulatorIsSafe(t *testing.T) {
	var r *repopulator
	r.enqueue(cacheWrite{key: "x", value: "v", ttl: time.Minute})
	r.close()
	if r.droppedCount() != 0 {
		t.Fatal("nil repopulator reported drops")
	}
}
