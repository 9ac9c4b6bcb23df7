package pipeline

import (
	"testing"
	"time"
)

func TestLatencyStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	for i, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, i*2)
	}

	snap := stats.Snapshot()
	if snap.Documents != 5 {
		t.Fatalf("expected 5 documents, got %d", snap.Documents)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Clauses != 20 || snap.AvgClauses != 4 {
		t.Fatalf("expected 20 clauses avg 4, got %d avg %f", snap.Clauses, snap.AvgClauses)
	}
}

func TestLatencyStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Now()
	stats := NewLatencyStats(10 * time.Minute)
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, 1)
	now = now.Add(11 * time.Minute)

	if snap := stats.Snapshot(); snap.Documents != 0 {
		t.Fatalf("expected 0 documents after prune, got %d", snap.Documents)
	}

	stats.Record(200*time.Millisecond, 3)
	snap := stats.Snapshot()
	if snap.Documents != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected single fresh sample of 200ms, got %+v", snap)
	}
}

func TestLatencyStatsClampsNegativeDuration(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record(-time.Second, 0)
	snap := stats.Snapshot()
	if snap.Documents != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

func TestPercentileBounds(t *testing.T) {
	vals := []int64{1, 2, 3}
	if got := percentile(vals, -5); got != 1 {
		t.Errorf("expected 1 for negative pct, got %v", got)
	}
	if got := percentile(vals, 150); got != 3 {
		t.Errorf("expected 3 for pct>100, got %v", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}
