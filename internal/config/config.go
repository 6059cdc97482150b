// Package config provides configuration management for the Zen assistant.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Supported AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Tool result policies: return the raw tool output as the turn's reply, or
// feed it back to the model for one follow-up generation.
const (
	ToolResultRaw      = "raw"
	ToolResultFollowup = "followup"
)

// Config holds all application configuration.
type Config struct {
	AI       AIConfig       `mapstructure:"ai"`
	Listen   ListenConfig   `mapstructure:"listen"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	WakeWord WakeWordConfig `mapstructure:"wake_word"`
	Overlay  OverlayConfig  `mapstructure:"overlay"`
	Stores   StoresConfig   `mapstructure:"stores"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// AIConfig configures the conversation brain and its provider.
type AIConfig struct {
	Provider       string        `mapstructure:"provider"` // gemini, openai, ollama
	SystemPrompt   string        `mapstructure:"system_prompt"`
	MaxHistory     int           `mapstructure:"max_history"`      // messages kept beyond the system prompt
	ToolResultMode string        `mapstructure:"tool_result_mode"` // raw or followup
	Timeout        time.Duration `mapstructure:"timeout"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	OpenAIModel  string `mapstructure:"openai_model"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	OllamaURL    string `mapstructure:"ollama_url"`
	OllamaModel  string `mapstructure:"ollama_model"`
}

// ListenConfig configures the speech capture collaborator.
type ListenConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`           // max wait for speech to start
	PhraseLimit   time.Duration `mapstructure:"phrase_time_limit"` // max phrase length
	WhisperAPIKey string        `mapstructure:"whisper_api_key"`
	RecordCommand string        `mapstructure:"record_command"` // external capture command producing WAV on stdout
}

// SpeechConfig configures text-to-speech output.
type SpeechConfig struct {
	Provider string  `mapstructure:"provider"` // openai or console
	Voice    string  `mapstructure:"voice"`
	Speed    float64 `mapstructure:"speed"`
	APIKey   string  `mapstructure:"api_key"`
}

// WakeWordConfig configures passive wake-word activation.
type WakeWordConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Word        string  `mapstructure:"word"`
	Sensitivity float64 `mapstructure:"sensitivity"`
}

// OverlayConfig configures the GUI overlay state bridge.
type OverlayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"` // websocket endpoint of the overlay renderer
}

// StoresConfig locates the JSON-backed task and memory stores.
type StoresConfig struct {
	Dir string `mapstructure:"dir"`
}

// ReminderConfig configures the daily task reminder.
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron expression
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultSystemPrompt is the assistant persona sent as the system message.
const DefaultSystemPrompt = `You are Zen, a helpful and concise voice assistant.

Your personality:
- Friendly but professional
- Clear and concise in your responses (keep answers brief for voice interaction)
- Proactive in offering solutions
- Patient and understanding

Guidelines:
- Keep responses under 2-3 sentences when possible
- For complex topics, offer to elaborate if the user wants more details
- When asked to perform system tasks, acknowledge and confirm the action
- Be conversational and natural

Remember: You're speaking, not typing, so avoid overly long explanations.`

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		AI: AIConfig{
			Provider:       ProviderGemini,
			SystemPrompt:   DefaultSystemPrompt,
			MaxHistory:     10,
			ToolResultMode: ToolResultRaw,
			Timeout:        60 * time.Second,
			OpenAIModel:    "gpt-4o-mini",
			GeminiModel:    "gemini-2.0-flash",
			OllamaURL:      "http://localhost:11434",
			OllamaModel:    "llama2",
		},
		Listen: ListenConfig{
			Timeout:     5 * time.Second,
			PhraseLimit: 10 * time.Second,
		},
		Speech: SpeechConfig{
			Provider: "console",
			Voice:    "nova",
			Speed:    1.0,
		},
		WakeWord: WakeWordConfig{
			Enabled:     false,
			Word:        "zen",
			Sensitivity: 0.5,
		},
		Overlay: OverlayConfig{
			Enabled: false,
			URL:     "ws://localhost:8765/state",
		},
		Stores: StoresConfig{
			Dir: filepath.Join(home, ".zen", "data"),
		},
		Reminder: ReminderConfig{
			Enabled:  false,
			Schedule: "0 9 * * *", // 9 AM daily
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9091",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zen"), nil
}

// Load reads configuration from file and environment. A missing config file
// is not an error; defaults are written out for the next run.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return cfg, err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return cfg, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ZEN")
	v.AutomaticEnv()

	// Credentials are commonly provided through the environment only.
	_ = v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.provider", "AI_PROVIDER")
	_ = v.BindEnv("ai.ollama_model", "OLLAMA_MODEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = cfg.AI.OpenAIAPIKey
	}
	if cfg.Listen.WhisperAPIKey == "" {
		cfg.Listen.WhisperAPIKey = cfg.AI.OpenAIAPIKey
	}

	return cfg, nil
}

// Validate checks that the configuration can support a conversation turn.
// Any returned error is fatal at startup.
func (c *Config) Validate() []error {
	var errs []error

	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			errs = append(errs, fmt.Errorf("GEMINI_API_KEY is required when using Gemini"))
		}
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required when using OpenAI"))
		}
	case ProviderOllama:
		if c.AI.OllamaURL == "" {
			errs = append(errs, fmt.Errorf("ollama_url is required when using Ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid AI provider: %q", c.AI.Provider))
	}

	if c.AI.MaxHistory < 1 {
		errs = append(errs, fmt.Errorf("max_history must be at least 1, got %d", c.AI.MaxHistory))
	}
	if m := c.AI.ToolResultMode; m != ToolResultRaw && m != ToolResultFollowup {
		errs = append(errs, fmt.Errorf("tool_result_mode must be %q or %q, got %q", ToolResultRaw, ToolResultFollowup, m))
	}
	if c.AI.SystemPrompt == "" {
		errs = append(errs, fmt.Errorf("system_prompt must not be empty"))
	}

	return errs
}
