package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// OpenAI TTS voices.
const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceFable   = "fable"
	VoiceOnyx    = "onyx"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"
)

const defaultSpeechURL = "https://api.openai.com/v1/audio/speech"

// OpenAIConfig holds OpenAI TTS configuration.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // tts-1 or tts-1-hd
	Voice       string  // alloy, echo, fable, onyx, nova, shimmer
	Speed       float64 // 0.25 to 4.0
	PlayCommand string  // external player reading MP3 from stdin
	URL         string  // override for tests
	Timeout     time.Duration
}

// OpenAISpeaker synthesizes replies through OpenAI's TTS API and pipes the
// MP3 to an external player.
type OpenAISpeaker struct {
	cfg    OpenAIConfig
	client *http.Client
	logger zerolog.Logger
}

// NewOpenAISpeaker creates the OpenAI speaker.
func NewOpenAISpeaker(cfg OpenAIConfig, logger zerolog.Logger) (*OpenAISpeaker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI TTS API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	if cfg.Voice == "" {
		cfg.Voice = VoiceNova
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}
	if cfg.PlayCommand == "" {
		cfg.PlayCommand = "ffplay -autoexit -nodisp -loglevel quiet -"
	}
	if cfg.URL == "" {
		cfg.URL = defaultSpeechURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAISpeaker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "tts").Logger(),
	}, nil
}

func (s *OpenAISpeaker) Name() string { return "openai" }

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}

// Say synthesizes the text and plays it.
func (s *OpenAISpeaker) Say(ctx context.Context, text string) error {
	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.play(ctx, audio)
}

// Synthesize returns the MP3 audio for the text.
func (s *OpenAISpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()

	body, err := json.Marshal(speechRequest{
		Model:          s.cfg.Model,
		Input:          text,
		Voice:          s.cfg.Voice,
		ResponseFormat: "mp3",
		Speed:          s.cfg.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		s.logger.Error().Int("status", resp.StatusCode).Str("body", string(errBody)).Msg("TTS request failed")
		return nil, fmt.Errorf("TTS error: %s", string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	s.logger.Info().
		Str("voice", s.cfg.Voice).
		Int("audioBytes", len(audio)).
		Dur("processingTime", time.Since(start)).
		Msg("Synthesis complete")
	return audio, nil
}

func (s *OpenAISpeaker) play(ctx context.Context, audio []byte) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", s.cfg.PlayCommand)
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}
