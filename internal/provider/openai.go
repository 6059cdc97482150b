package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/brain"
)

// OpenAIConfig configures the OpenAI adapter.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // override for tests
}

// OpenAI is the plain-chat adapter: no function calling, the full trimmed
// history travels with every request, so Reset has no remote state to clear.
type OpenAI struct {
	cfg    OpenAIConfig
	api    openai.Client
	logger zerolog.Logger
}

// NewOpenAI creates the OpenAI adapter.
func NewOpenAI(cfg OpenAIConfig, logger zerolog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	o := &OpenAI{
		cfg:    cfg,
		api:    openai.NewClient(opts...),
		logger: logger.With().Str("component", "openai").Logger(),
	}
	o.logger.Info().Str("model", cfg.Model).Msg("OpenAI provider ready")
	return o, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Send runs one chat completion over the supplied history. The history
// already ends with the current user message, so userText is not re-sent.
func (o *OpenAI) Send(ctx context.Context, _ string, history []brain.Message) (*brain.ProviderResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case brain.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case brain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    o.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return &brain.ProviderResponse{}, nil
	}
	return &brain.ProviderResponse{Text: resp.Choices[0].Message.Content}, nil
}

// Reset is a no-op: the adapter is stateless between turns.
func (o *OpenAI) Reset() error {
	o.logger.Debug().Msg("OpenAI reset (stateless)")
	return nil
}
