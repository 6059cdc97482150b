package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/brain"
)

// OllamaConfig configures the local-model adapter.
type OllamaConfig struct {
	URL   string
	Model string
}

// Ollama talks to a local Ollama daemon over its /api/chat endpoint. Small
// local models tend to parrot system prompts back, so the system message is
// stripped from the payload.
type Ollama struct {
	cfg    OllamaConfig
	client *http.Client
	logger zerolog.Logger
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

// NewOllama creates the Ollama adapter.
func NewOllama(cfg OllamaConfig, logger zerolog.Logger) (*Ollama, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: missing Ollama URL", ErrProviderUnavailable)
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Model == "" {
		cfg.Model = "llama2"
	}

	o := &Ollama{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
		logger: logger.With().Str("component", "ollama").Logger(),
	}
	o.logger.Info().Str("url", cfg.URL).Str("model", cfg.Model).Msg("Ollama provider ready")
	return o, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Send posts the history (minus the system message) as one non-streaming
// chat request.
func (o *Ollama) Send(ctx context.Context, _ string, history []brain.Message) (*brain.ProviderResponse, error) {
	messages := make([]ollamaMessage, 0, len(history))
	for _, m := range history {
		if m.Role == brain.RoleSystem {
			continue
		}
		messages = append(messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    o.cfg.Model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.URL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if chat.Error != "" {
		return nil, fmt.Errorf("ollama API error: %s", chat.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API status %d", resp.StatusCode)
	}

	return &brain.ProviderResponse{Text: strings.TrimSpace(chat.Message.Content)}, nil
}

// Reset is a no-op: the daemon holds no session state between requests.
func (o *Ollama) Reset() error { return nil }
