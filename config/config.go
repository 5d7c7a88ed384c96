package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Chat service (channel + event transport)
	Chat ChatConfig

	// Web search tool
	Tavily TavilyConfig

	// LLM adapters
	LLM LLMConfig

	// Inbound chat webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// ChatConfig holds credentials for the chat service the agent writes into.
type ChatConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	BotUserID string
}

type TavilyConfig struct {
	APIKey string
}

// LLMConfig holds one credential block per supported vendor.
// A vendor with an empty APIKey is simply not registered.
type LLMConfig struct {
	OpenAI     ProviderConfig
	Anthropic  ProviderConfig
	Gemini     ProviderConfig
	Llama      ProviderConfig
	OpenRouter ProviderConfig
}

// ProviderConfig holds configuration for a single LLM vendor.
type ProviderConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

type WebhookConfig struct {
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Chat service
	cfg.Chat.APIKey = viper.GetString("chat.api_key")
	cfg.Chat.APISecret = viper.GetString("chat.api_secret")
	cfg.Chat.BaseURL = viper.GetString("chat.base_url")
	cfg.Chat.BotUserID = viper.GetString("chat.bot_user_id")
	if key := viper.GetString("stream_api_key"); key != "" {
		cfg.Chat.APIKey = key
	}
	if secret := viper.GetString("stream_api_secret"); secret != "" {
		cfg.Chat.APISecret = secret
	}

	// Web search
	cfg.Tavily.APIKey = viper.GetString("tavily.api_key")
	if key := viper.GetString("tavily_api_key"); key != "" {
		cfg.Tavily.APIKey = key
	}

	// LLM vendors: config file block with flat env override per credential.
	cfg.LLM.OpenAI = loadProvider("openai", "openai_api_key")
	cfg.LLM.Anthropic = loadProvider("anthropic", "anthropic_api_key")
	cfg.LLM.Gemini = loadProvider("gemini", "gemini_api_key")
	cfg.LLM.Llama = loadProvider("llama", "llama_api_key")
	cfg.LLM.OpenRouter = loadProvider("openrouter", "openrouter_api_key")

	// Webhooks
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	return cfg, nil
}

// loadProvider reads one vendor block, letting a flat env var override the key.
func loadProvider(name, envKey string) ProviderConfig {
	p := ProviderConfig{
		APIKey:       viper.GetString("llm." + name + ".api_key"),
		BaseURL:      viper.GetString("llm." + name + ".base_url"),
		DefaultModel: viper.GetString("llm." + name + ".default_model"),
	}
	if key := viper.GetString(envKey); key != "" {
		p.APIKey = key
	}
	return p
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("webhook.rate_limit_per_min", 60)
}
