package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultWhisperURL = "https://api.openai.com/v1/audio/transcriptions"

// WhisperConfig holds Whisper API configuration.
type WhisperConfig struct {
	APIKey   string
	Model    string // whisper-1
	Language string // optional language hint
	URL      string // override for tests
	Timeout  time.Duration
}

// Whisper transcribes WAV audio through OpenAI's Whisper API.
type Whisper struct {
	cfg    WhisperConfig
	client *http.Client
	logger zerolog.Logger
}

// NewWhisper creates the Whisper transcriber.
func NewWhisper(cfg WhisperConfig, logger zerolog.Logger) *Whisper {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Whisper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "whisper").Logger(),
	}
}

func (w *Whisper) Name() string { return "whisper-api" }

// Transcribe uploads the audio as a multipart form and returns the text.
// An empty transcript maps to ErrNoSpeech.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if w.cfg.APIKey == "" {
		return "", fmt.Errorf("whisper API key not configured")
	}
	if len(audio) == 0 {
		return "", ErrNoSpeech
	}

	start := time.Now()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.WriteField("model", w.cfg.Model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if w.cfg.Language != "" {
		if err := writer.WriteField("language", w.cfg.Language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		w.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Whisper API error")
		return "", fmt.Errorf("API error: %s", string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrNoSpeech
	}

	w.logger.Info().Str("text", text).Dur("time", time.Since(start)).Msg("Transcription complete")
	return text, nil
}
