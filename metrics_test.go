package sessionguard

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricSessionCreated)

	if got := m.Value(MetricSessionCreated); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricSessionCreated)
	m.Inc(MetricSessionCreated)
	m.Inc(MetricSessionCreated)

	if got := m.Value(MetricSessionCreated); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricValidateAccept)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricValidateAccept); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		2 * time.Millisecond,   // bucket 0
		8 * time.Millisecond,   // bucket 1
		20 * time.Millisecond,  // bucket 2
		40 * time.Millisecond,  // bucket 3
		90 * time.Millisecond,  // bucket 4
		200 * time.Millisecond, // bucket 5
		400 * time.Millisecond, // bucket 6
		900 * time.Millisecond, // bucket 7
	}
	for _, d := range observations {
		m.Observe(MetricValidateLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricValidateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	for i, count := range buckets {
		if count != 1 {
			t.Fatalf("expected 1 observation in bucket %d, got %d", i, count)
		}
	}
}

func TestMetricsHistogramDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricValidateLatency, 10*time.Millisecond)

	if got := m.Snapshot().Histograms; len(got) != 0 {
		t.Fatalf("expected no histogram without opt-in, got %v", got)
	}
}

func TestMetricsUnknownIDIgnored(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount + 5)

	if got := m.Value(metricIDCount + 5); got != 0 {
		t.Fatalf("expected out-of-range ID ignored, got %d", got)
	}
}

func TestMetricsEngineCountersFlow(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	token := mustCreate(t, engine, ctx, "u1")
	if _, err := engine.ValidateSession(ctx, token); err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	counters := engine.MetricsSnapshot().Counters
	if counters[MetricSessionCreated] != 1 {
		t.Fatalf("expected 1 create, got %d", counters[MetricSessionCreated])
	}
	if counters[MetricValidateAccept] != 1 {
		t.Fatalf("expected 1 accept, got %d", counters[MetricValidateAccept])
	}
	if counters[MetricSessionDestroyed] != 1 {
		t.Fatalf("expected 1 destroy, got %d", counters[MetricSessionDestroyed])
	}
}
