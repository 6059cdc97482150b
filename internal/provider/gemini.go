package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/brain"
	"github.com/zen-ai/zen/internal/tool"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey       string
	Model        string
	SystemPrompt string
	BaseURL      string // override for tests
}

// Gemini talks to the generativelanguage REST API with function calling
// enabled. It keeps its own running contents list so the remote model sees
// the full exchange including function responses, which the shared history
// deliberately omits.
type Gemini struct {
	cfg    GeminiConfig
	tools  []geminiToolDecl
	client *http.Client
	logger zerolog.Logger

	mu       sync.Mutex
	contents []geminiContent
}

type geminiToolDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type geminiPart struct {
	Text         string          `json:"text,omitempty"`
	FunctionCall *geminiFuncCall `json:"functionCall,omitempty"`
}

type geminiFuncCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []struct {
		FunctionDeclarations []geminiToolDecl `json:"functionDeclarations"`
	} `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGemini creates the Gemini adapter. The descriptor list is translated to
// functionDeclarations once here; the registry is immutable after startup.
func NewGemini(cfg GeminiConfig, descriptors []tool.Descriptor, logger zerolog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing Gemini API key", ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}

	decls := make([]geminiToolDecl, 0, len(descriptors))
	for _, d := range descriptors {
		decl := geminiToolDecl{Name: d.Name, Description: d.Description}
		if d.Schema != nil && len(d.Schema.Properties) > 0 {
			decl.Parameters = d.Schema.JSONSchema()
		}
		decls = append(decls, decl)
	}

	g := &Gemini{
		cfg:    cfg,
		tools:  decls,
		client: &http.Client{Timeout: 90 * time.Second},
		logger: logger.With().Str("component", "gemini").Logger(),
	}
	g.logger.Info().Str("model", cfg.Model).Int("tools", len(decls)).Msg("Gemini provider ready")
	return g, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Send appends the user text to the remote session, performs one generation
// and parses either text or a function call out of the first candidate.
func (g *Gemini) Send(ctx context.Context, userText string, _ []brain.Message) (*brain.ProviderResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.contents = append(g.contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userText}},
	})

	req := geminiRequest{Contents: g.contents}
	if g.cfg.SystemPrompt != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: g.cfg.SystemPrompt}}}
	}
	if len(g.tools) > 0 {
		req.Tools = []struct {
			FunctionDeclarations []geminiToolDecl `json:"functionDeclarations"`
		}{{FunctionDeclarations: g.tools}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.cfg.BaseURL, g.cfg.Model, g.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini API error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API status %d", httpResp.StatusCode)
	}

	if len(resp.Candidates) == 0 {
		return &brain.ProviderResponse{}, nil
	}

	candidate := resp.Candidates[0].Content
	g.contents = append(g.contents, candidate)

	for _, part := range candidate.Parts {
		if part.FunctionCall != nil {
			return &brain.ProviderResponse{
				ToolCall: &brain.ToolCall{
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				},
			}, nil
		}
	}

	var text string
	for _, part := range candidate.Parts {
		text += part.Text
	}
	return &brain.ProviderResponse{Text: text}, nil
}

// Reset drops the remote session contents.
func (g *Gemini) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.contents = nil
	g.logger.Debug().Msg("Gemini session cleared")
	return nil
}
