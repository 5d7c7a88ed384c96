package llmprovider

import (
	"context"
	"strings"

	"ai-writing-assistant/config"
	"ai-writing-assistant/pkg/log"
)

// registration ties a provider key to its adapter and the model-id prefix
// families it owns for routing.
type registration struct {
	key      string
	prefixes []string
	adapter  Adapter
}

// Factory owns the set of configured adapters and routes requests to them.
// It is built once at startup and read-only afterwards.
type Factory struct {
	registrations  []registration
	defaultAdapter Adapter
	l              log.Logger
}

// NewFactory instantiates an adapter for every vendor whose credential is
// present, in a fixed precedence order. The first configured vendor becomes
// the default. Fails with ErrNoAdaptersConfigured when nothing is configured.
func NewFactory(cfg config.LLMConfig, l log.Logger) (*Factory, error) {
	f := &Factory{l: l}

	if cfg.OpenAI.APIKey != "" {
		f.register("openai", []string{"gpt-"}, NewOpenAIAdapter(adapterConfig(cfg.OpenAI)))
	}
	if cfg.Anthropic.APIKey != "" {
		f.register("anthropic", []string{"claude-"}, NewAnthropicAdapter(adapterConfig(cfg.Anthropic)))
	}
	if cfg.Gemini.APIKey != "" {
		f.register("gemini", []string{"gemini-"}, NewGeminiAdapter(adapterConfig(cfg.Gemini)))
	}
	if cfg.Llama.APIKey != "" {
		f.register("llama", []string{"meta-llama/"}, NewLlamaAdapter(adapterConfig(cfg.Llama)))
	}
	if cfg.OpenRouter.APIKey != "" {
		f.register("openrouter",
			[]string{"openai/", "anthropic/", "google/", "meta-llama/", "openrouter:"},
			NewOpenRouterAdapter(adapterConfig(cfg.OpenRouter)))
	}

	if len(f.registrations) == 0 {
		return nil, ErrNoAdaptersConfigured
	}

	return f, nil
}

func (f *Factory) register(key string, prefixes []string, adapter Adapter) {
	f.registrations = append(f.registrations, registration{key: key, prefixes: prefixes, adapter: adapter})
	if f.defaultAdapter == nil {
		f.defaultAdapter = adapter
	}
}

func adapterConfig(p config.ProviderConfig) AdapterConfig {
	return AdapterConfig{
		APIKey:       p.APIKey,
		BaseURL:      p.BaseURL,
		DefaultModel: p.DefaultModel,
	}
}

// Generate routes the request to the adapter owning the requested model and
// delegates the call. Routing never fails: an unroutable model degrades to
// the default adapter.
func (f *Factory) Generate(ctx context.Context, req *Request) (*Response, error) {
	return f.resolve(ctx, req.Model).Generate(ctx, req)
}

// resolve picks an adapter: prefix match, then explicit support check in
// registration order, then the default.
func (f *Factory) resolve(ctx context.Context, model string) Adapter {
	if model == "" {
		return f.defaultAdapter
	}

	for _, reg := range f.registrations {
		for _, prefix := range reg.prefixes {
			if strings.HasPrefix(model, prefix) {
				return reg.adapter
			}
		}
	}

	for _, reg := range f.registrations {
		if reg.adapter.SupportsModel(model) {
			return reg.adapter
		}
	}

	f.l.Warnf(ctx, "model %s not supported by any adapter, falling back to default", model)
	return f.defaultAdapter
}

// SupportedModels returns the deduplicated union of every registered
// adapter's model allow-list. Informational only, not used for routing.
func (f *Factory) SupportedModels() []string {
	seen := make(map[string]bool)
	var models []string
	for _, reg := range f.registrations {
		for _, m := range reg.adapter.Models() {
			if !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	return models
}

// DefaultModel returns the default adapter's fallback model.
func (f *Factory) DefaultModel() string {
	return f.defaultAdapter.DefaultModel()
}

// Providers returns the registered provider keys in precedence order.
func (f *Factory) Providers() []string {
	keys := make([]string, 0, len(f.registrations))
	for _, reg := range f.registrations {
		keys = append(keys, reg.key)
	}
	return keys
}
