// Package brain orchestrates conversation turns: it owns the history,
// dispatches user input to the active AI provider, resolves tool-call
// requests against the registry, and converts every failure mode into a
// speakable reply.
package brain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/config"
	"github.com/zen-ai/zen/internal/metrics"
	"github.com/zen-ai/zen/internal/tool"
)

// ReplyKind distinguishes a final model answer from a surfaced tool result.
type ReplyKind string

const (
	ReplyText       ReplyKind = "text"
	ReplyToolResult ReplyKind = "tool_result"
)

// Reply is the outcome of one conversation turn.
type Reply struct {
	Kind    ReplyKind
	Content string
}

// ToolCall is a structured tool invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ProviderResponse is the raw outcome of one provider round-trip: either
// final text, a tool call, or neither (no content).
type ProviderResponse struct {
	Text     string
	ToolCall *ToolCall
}

// Provider is the uniform surface over the AI backends. Implementations are
// constructed with the tool descriptor list already translated to their wire
// format; Send performs one round-trip, Reset re-establishes any persistent
// remote session.
type Provider interface {
	Name() string
	Send(ctx context.Context, userText string, history []Message) (*ProviderResponse, error)
	Reset() error
}

// Fallback wordings. These are spoken aloud, so they stay short and never
// leak internal error detail.
const (
	msgProcessingTrouble = "I'm having trouble processing that. Could you try again?"
	msgNoContent         = "I couldn't generate a response."
)

// Options configures a Brain.
type Options struct {
	SystemPrompt   string
	MaxHistory     int
	ToolResultMode string // config.ToolResultRaw or config.ToolResultFollowup
	Timeout        time.Duration
}

// Brain owns the conversation state. GetResponse is a total function: every
// failure mode terminates in a returned Reply, never an error, so the outer
// speech loop needs no exception handling around a turn.
type Brain struct {
	mu       sync.Mutex
	history  *History
	provider Provider
	registry *tool.Registry
	opts     Options
	logger   zerolog.Logger
}

// New creates a Brain around an initialized provider and a completed
// registry.
func New(provider Provider, registry *tool.Registry, opts Options, logger zerolog.Logger) *Brain {
	if opts.MaxHistory < 1 {
		opts.MaxHistory = 10
	}
	if opts.ToolResultMode == "" {
		opts.ToolResultMode = config.ToolResultRaw
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	b := &Brain{
		history:  NewHistory(opts.SystemPrompt, opts.MaxHistory),
		provider: provider,
		registry: registry,
		opts:     opts,
		logger:   logger.With().Str("component", "brain").Logger(),
	}
	b.logger.Info().Str("provider", provider.Name()).Int("maxHistory", opts.MaxHistory).Msg("Brain initialized")
	return b
}

// GetResponse runs one conversation turn for the given transcript.
func (b *Brain) GetResponse(ctx context.Context, userText string) Reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	b.history.Append(RoleUser, userText)
	defer func() {
		b.history.Trim()
		metrics.HistoryLength.Set(float64(b.history.Len()))
	}()

	start := time.Now()
	resp, err := b.provider.Send(ctx, userText, b.history.Messages())
	metrics.ProviderLatency.WithLabelValues(b.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		b.logger.Error().Err(err).Msg("Provider round-trip failed")
		metrics.TurnsTotal.WithLabelValues("provider_error").Inc()
		return Reply{Kind: ReplyText, Content: msgProcessingTrouble}
	}

	if resp.ToolCall != nil {
		return b.dispatchTool(ctx, resp.ToolCall)
	}

	if resp.Text == "" {
		b.logger.Warn().Msg("Provider returned no content")
		metrics.TurnsTotal.WithLabelValues("empty_response").Inc()
		return Reply{Kind: ReplyText, Content: msgNoContent}
	}

	b.history.Append(RoleAssistant, resp.Text)
	metrics.TurnsTotal.WithLabelValues("text").Inc()
	return Reply{Kind: ReplyText, Content: resp.Text}
}

// dispatchTool resolves and executes a tool call, isolating every failure.
func (b *Brain) dispatchTool(ctx context.Context, call *ToolCall) Reply {
	desc, ok := b.registry.Resolve(call.Name)
	if !ok {
		b.logger.Warn().Str("tool", call.Name).Msg("Model requested unknown tool")
		metrics.TurnsTotal.WithLabelValues("unknown_tool").Inc()
		return Reply{
			Kind:    ReplyText,
			Content: fmt.Sprintf("I tried to use a tool named %s, but I don't have it.", call.Name),
		}
	}

	result, err := b.execute(desc, call.Args)
	if err != nil {
		b.logger.Error().Err(err).Str("tool", call.Name).Msg("Tool execution failed")
		metrics.ToolExecutions.WithLabelValues(call.Name, "error").Inc()
		metrics.TurnsTotal.WithLabelValues("tool_error").Inc()
		return Reply{
			Kind:    ReplyText,
			Content: fmt.Sprintf("I failed to use the tool %s.", call.Name),
		}
	}

	b.logger.Info().Str("tool", call.Name).Msg("Tool executed")
	metrics.ToolExecutions.WithLabelValues(call.Name, "ok").Inc()

	if b.opts.ToolResultMode == config.ToolResultFollowup {
		return b.followUp(ctx, call.Name, result)
	}

	// Raw mode: surface the tool output directly. The reply is not
	// appended to history; the tool-calling provider's remote session
	// already retains the exchange.
	metrics.TurnsTotal.WithLabelValues("tool_result").Inc()
	return Reply{Kind: ReplyToolResult, Content: result}
}

// execute invokes the tool executor, converting a panic into an error so a
// misbehaving executor can never take down the turn.
func (b *Brain) execute(desc tool.Descriptor, args map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", desc.Name, r)
		}
	}()
	return desc.Exec(args)
}

// followUp feeds a successful tool result back to the model for one more
// generation, so it can phrase a natural-language answer around it.
func (b *Brain) followUp(ctx context.Context, toolName, result string) Reply {
	prompt := fmt.Sprintf("The tool %s returned: %s\nAnswer the user's request using this result.", toolName, result)

	resp, err := b.provider.Send(ctx, prompt, b.history.Messages())
	if err != nil || resp.ToolCall != nil || resp.Text == "" {
		if err != nil {
			b.logger.Warn().Err(err).Msg("Follow-up generation failed, surfacing raw tool result")
		}
		metrics.TurnsTotal.WithLabelValues("tool_result").Inc()
		return Reply{Kind: ReplyToolResult, Content: result}
	}

	b.history.Append(RoleAssistant, resp.Text)
	metrics.TurnsTotal.WithLabelValues("text").Inc()
	return Reply{Kind: ReplyText, Content: resp.Text}
}

// Reset clears the conversation back to the system message and
// re-establishes the provider's remote session, so no stale remote context
// leaks into subsequent turns.
func (b *Brain) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.history.Reset()
	metrics.HistoryLength.Set(float64(b.history.Len()))
	if err := b.provider.Reset(); err != nil {
		return fmt.Errorf("provider reset: %w", err)
	}
	b.logger.Info().Msg("Conversation reset")
	return nil
}

// HistorySnapshot returns a copy of the current conversation history.
func (b *Brain) HistorySnapshot() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Messages()
}
