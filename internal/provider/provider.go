// Package provider implements the AI backend adapters behind the brain's
// provider interface: Gemini (tool-calling), OpenAI (plain chat) and Ollama
// (local model).
package provider

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/brain"
	"github.com/zen-ai/zen/internal/config"
	"github.com/zen-ai/zen/internal/tool"
)

// Common errors. Both are fatal at startup: the assistant never runs
// without a usable provider.
var (
	ErrProviderUnavailable = errors.New("AI provider unavailable")
	ErrUnknownProvider     = errors.New("unknown AI provider")
)

// New constructs the configured provider. Tool registration must be
// complete before this runs: the tool-calling provider advertises the
// descriptor list to the remote model at connection time.
func New(cfg *config.AIConfig, registry *tool.Registry, logger zerolog.Logger) (brain.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(GeminiConfig{
			APIKey:       cfg.GeminiAPIKey,
			Model:        cfg.GeminiModel,
			SystemPrompt: cfg.SystemPrompt,
		}, registry.Descriptors(), logger)
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}, logger)
	case config.ProviderOllama:
		return NewOllama(OllamaConfig{
			URL:   cfg.OllamaURL,
			Model: cfg.OllamaModel,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
