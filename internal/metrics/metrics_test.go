package metrics

import (
	"sync"
	"testing"
)

func TestSnapshot_Empty(t *testing.T) {
	r := NewRecorder()

	snap := r.Snapshot()

	if snap.TotalRequests != 0 {
		t.Errorf("Expected 0 requests, got: %d", snap.TotalRequests)
	}
	if snap.AvgLatency != 0 {
		t.Errorf("Expected 0 avg latency, got: %v", snap.AvgLatency)
	}
	if snap.TotalTokens != 0 {
		t.Errorf("Expected 0 tokens, got: %d", snap.TotalTokens)
	}
	if snap.TotalCostUSD != 0 {
		t.Errorf("Expected 0 cost, got: %v", snap.TotalCostUSD)
	}
	if len(snap.RequestsByModel) != 0 {
		t.Errorf("Expected empty per-model map, got: %v", snap.RequestsByModel)
	}
}

func TestRecordRequest_Accumulates(t *testing.T) {
	r := NewRecorder()
	cost := 0.0123

	r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: 100, PromptTokens: 10, CompletionTokens: 5, CostUSD: &cost})
	r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: 300, PromptTokens: 8, CompletionTokens: 3})
	r.RecordRequest(Sample{Model: "gemini-1.5-flash", LatencyMs: 200, PromptTokens: 2, CompletionTokens: 2})

	snap := r.Snapshot()

	if snap.TotalRequests != 3 {
		t.Errorf("Expected 3 requests, got: %d", snap.TotalRequests)
	}
	if snap.AvgLatency != 200 {
		t.Errorf("Expected avg latency 200, got: %v", snap.AvgLatency)
	}
	if snap.TotalTokens != 30 {
		t.Errorf("Expected 30 total tokens, got: %d", snap.TotalTokens)
	}
	if snap.TotalCostUSD != 0.0123 {
		t.Errorf("Expected cost 0.0123, got: %v", snap.TotalCostUSD)
	}
	if snap.RequestsByModel["gpt-4o"] != 2 {
		t.Errorf("Expected 2 gpt-4o requests, got: %d", snap.RequestsByModel["gpt-4o"])
	}
	if snap.RequestsByModel["gemini-1.5-flash"] != 1 {
		t.Errorf("Expected 1 gemini-1.5-flash request, got: %d", snap.RequestsByModel["gemini-1.5-flash"])
	}
}

func TestRecordRequest_FixedLatencyAverage(t *testing.T) {
	r := NewRecorder()

	for i := 0; i < 7; i++ {
		r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: 150})
	}

	snap := r.Snapshot()
	if snap.AvgLatency != 150 {
		t.Errorf("Expected avg latency 150 for identical samples, got: %v", snap.AvgLatency)
	}
}

func TestRecordRequest_ClampsNegativeInputs(t *testing.T) {
	r := NewRecorder()
	cost := -5.0

	r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: -100, PromptTokens: -10, CompletionTokens: -5, CostUSD: &cost})

	snap := r.Snapshot()
	if snap.AvgLatency != 0 {
		t.Errorf("Expected negative latency clamped to 0, got: %v", snap.AvgLatency)
	}
	if snap.TotalTokens != 0 {
		t.Errorf("Expected negative tokens clamped to 0, got: %d", snap.TotalTokens)
	}
	if snap.TotalCostUSD != 0 {
		t.Errorf("Expected negative cost clamped to 0, got: %v", snap.TotalCostUSD)
	}
	if snap.TotalRequests != 1 {
		t.Errorf("Expected request still counted, got: %d", snap.TotalRequests)
	}
}

func TestSnapshot_Idempotent(t *testing.T) {
	r := NewRecorder()
	r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: 42, PromptTokens: 1, CompletionTokens: 1})

	first := r.Snapshot()
	second := r.Snapshot()

	if first.TotalRequests != second.TotalRequests || first.AvgLatency != second.AvgLatency ||
		first.TotalTokens != second.TotalTokens || first.TotalCostUSD != second.TotalCostUSD {
		t.Errorf("Expected repeated snapshots to match: %+v vs %+v", first, second)
	}

	// Mutating a returned snapshot must not leak back into the recorder.
	first.RequestsByModel["gpt-4o"] = 999
	if r.Snapshot().RequestsByModel["gpt-4o"] != 1 {
		t.Error("Expected snapshot map to be a copy")
	}
}

func TestRecordRequest_Concurrent(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordRequest(Sample{Model: "gpt-4o", LatencyMs: 10, PromptTokens: 1, CompletionTokens: 1})
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	if snap.TotalRequests != 50 {
		t.Errorf("Expected 50 requests, got: %d", snap.TotalRequests)
	}
	if snap.TotalTokens != 100 {
		t.Errorf("Expected 100 tokens, got: %d", snap.TotalTokens)
	}
}
