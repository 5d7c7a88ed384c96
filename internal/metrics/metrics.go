// Package metrics accumulates process-wide LLM usage counters. The Recorder
// is an injected dependency rather than ambient global state, and all updates
// go through a single mutex so concurrent agent invocations stay consistent.
package metrics

import (
	"math"
	"sync"
)

// Sample is one completed agent invocation.
type Sample struct {
	Model            string
	LatencyMs        int64
	PromptTokens     int
	CompletionTokens int
	CostUSD          *float64 // nil when the model is unpriced
}

// Snapshot is the derived read-only view of the counters.
type Snapshot struct {
	TotalRequests   int64            `json:"totalRequests"`
	AvgLatency      float64          `json:"avgLatency"`
	TotalTokens     int64            `json:"totalTokens"`
	TotalCostUSD    float64          `json:"totalCostUSD"`
	RequestsByModel map[string]int64 `json:"requestsByModel"`
}

// Recorder holds monotonically increasing usage counters for the process
// lifetime. Counters never decrease and are never evicted.
type Recorder struct {
	mu sync.Mutex

	totalRequests         int64
	totalLatencyMs        int64
	totalPromptTokens     int64
	totalCompletionTokens int64
	totalCostUSD          float64
	requestsByModel       map[string]int64
}

// NewRecorder creates a zeroed Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		requestsByModel: make(map[string]int64),
	}
}

// RecordRequest accumulates one sample. Negative numeric inputs are clamped
// to zero before accumulating.
func (r *Recorder) RecordRequest(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	r.totalLatencyMs += clampInt64(s.LatencyMs)
	r.totalPromptTokens += clampInt64(int64(s.PromptTokens))
	r.totalCompletionTokens += clampInt64(int64(s.CompletionTokens))
	if s.CostUSD != nil {
		r.totalCostUSD += math.Max(0, *s.CostUSD)
	}
	r.requestsByModel[s.Model]++
}

// Snapshot derives the current metrics view. Average latency is rounded to
// 2 decimals (0 when no requests), total cost to 4 decimals.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var avgLatency float64
	if r.totalRequests > 0 {
		avgLatency = math.Round(float64(r.totalLatencyMs)/float64(r.totalRequests)*100) / 100
	}

	byModel := make(map[string]int64, len(r.requestsByModel))
	for model, count := range r.requestsByModel {
		byModel[model] = count
	}

	return Snapshot{
		TotalRequests:   r.totalRequests,
		AvgLatency:      avgLatency,
		TotalTokens:     r.totalPromptTokens + r.totalCompletionTokens,
		TotalCostUSD:    math.Round(r.totalCostUSD*10000) / 10000,
		RequestsByModel: byModel,
	}
}

func clampInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
