package goBasket

import (
	"sync"
	"testing"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(true)

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Add(MetricTenantDBRead, 5)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("value: %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("snapshot login success: %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricTenantDBRead] != 5 {
		t.Fatalf("snapshot db read: %d", snap.Counters[MetricTenantDBRead])
	}
	if snap.Counters[MetricLogout] != 0 {
		t.Fatalf("untouched counter: %d", snap.Counters[MetricLogout])
	}
}

func TestMetricsDisabledIsNoop(t *testing.T) {
	m := NewMetrics(false)

	m.Inc(MetricLoginSuccess)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics recorded a value")
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("disabled snapshot should be empty")
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricLoginSuccess)
	if m.Enabled() {
		t.Fatal("nil metrics reported enabled")
	}
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("nil metrics reported a value")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricSessionLookupHit)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricSessionLookupHit); got != 8000 {
		t.Fatalf("expected 8000, got %d", got)
	}
}
