// Package pricing estimates USD cost for LLM token usage from a static
// per-model rate table.
package pricing

import "math"

// Entry holds USD rates per 1K tokens for one model.
type Entry struct {
	InputPer1K  float64
	OutputPer1K float64
}

// table is illustrative; update with contracted pricing.
var table = map[string]Entry{
	// OpenAI
	"gpt-4o":      {InputPer1K: 0.005, OutputPer1K: 0.015},
	"gpt-4o-mini": {InputPer1K: 0.00015, OutputPer1K: 0.0006},

	// Anthropic Claude via OpenRouter
	"anthropic/claude-3.5-sonnet":  {InputPer1K: 0.003, OutputPer1K: 0.015},
	"openrouter:claude-3.5-sonnet": {InputPer1K: 0.003, OutputPer1K: 0.015},

	// Llama via OpenRouter
	"meta-llama/llama-3.1-70b-instruct": {InputPer1K: 0.0006, OutputPer1K: 0.0012},
	"openrouter:llama-3.1-70b":          {InputPer1K: 0.0006, OutputPer1K: 0.0012},
}

// EstimateCostUSD returns the estimated cost for the given usage, rounded to
// 4 decimal places. ok is false for models absent from the table, since an
// unknown cost is distinct from zero cost.
func EstimateCostUSD(model string, promptTokens, completionTokens int) (cost float64, ok bool) {
	entry, ok := table[model]
	if !ok {
		return 0, false
	}
	inputCost := float64(promptTokens) / 1000 * entry.InputPer1K
	outputCost := float64(completionTokens) / 1000 * entry.OutputPer1K
	return math.Round((inputCost+outputCost)*10000) / 10000, true
}
