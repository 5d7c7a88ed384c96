package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-writing-assistant/config"
	_ "ai-writing-assistant/docs" // Swagger docs
	"ai-writing-assistant/internal/agent"
	"ai-writing-assistant/internal/agent/tools"
	"ai-writing-assistant/internal/httpserver"
	"ai-writing-assistant/internal/metrics"
	"ai-writing-assistant/internal/webhook"
	"ai-writing-assistant/pkg/chat"
	"ai-writing-assistant/pkg/llmprovider"
	"ai-writing-assistant/pkg/log"
	"ai-writing-assistant/pkg/tavily"
)

// @title       AI Writing Assistant API
// @description Chat agent with multi-provider LLM routing, web search tool calling, and usage metrics.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting AI Writing Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Usage metrics
	recorder := metrics.NewRecorder()

	// 4. LLM providers
	factory, err := llmprovider.NewFactory(cfg.LLM, logger)
	if err != nil {
		if errors.Is(err, llmprovider.ErrNoAdaptersConfigured) {
			logger.Fatal(ctx, "No LLM provider API key configured, set at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, LLAMA_API_KEY, OPENROUTER_API_KEY")
		}
		logger.Fatalf(ctx, "Failed to initialize LLM providers: %v", err)
	}
	logger.Infof(ctx, "LLM providers configured: %v (default model: %s)", factory.Providers(), factory.DefaultModel())

	// 5. Chat client
	chatClient := chat.NewClient(cfg.Chat.APIKey, cfg.Chat.APISecret, cfg.Chat.BaseURL, cfg.Chat.BotUserID)

	// 6. Tools
	registry := agent.NewRegistry()

	var searchClient tavily.ISearch
	if cfg.Tavily.APIKey != "" {
		searchClient = tavily.NewClient(cfg.Tavily.APIKey)
		logger.Info(ctx, "Web search enabled")
	} else {
		logger.Warn(ctx, "TAVILY_API_KEY not set, web search will report unavailable")
	}
	registry.Register(tools.NewWebSearchTool(searchClient, logger))

	// 7. Agent
	aiAgent := agent.New(factory, chatClient, registry, recorder, logger)

	// 8. Webhook ingress
	webhookHandler := webhook.NewHandler(aiAgent, webhook.SecurityConfig{
		Secret:          cfg.Chat.APISecret,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	}, logger)

	// 9. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		Recorder:       recorder,
		Catalog:        factory,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
