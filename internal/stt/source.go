package stt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ConsoleSource reads typed input lines, for text mode and tests.
type ConsoleSource struct {
	scanner *bufio.Scanner
}

// NewConsoleSource wraps a reader of newline-delimited input.
func NewConsoleSource(r io.Reader) *ConsoleSource {
	return &ConsoleSource{scanner: bufio.NewScanner(r)}
}

// NextTranscript returns the next non-empty line.
func (c *ConsoleSource) NextTranscript(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if line := strings.TrimSpace(c.scanner.Text()); line != "" {
			return line, nil
		}
	}
}

// CommandRecorder captures one utterance per call by running an external
// record command that writes WAV to stdout, then transcribes it. This keeps
// audio device handling out of the process.
type CommandRecorder struct {
	command     string
	transcriber Transcriber
	logger      zerolog.Logger
}

// NewCommandRecorder creates a recorder around a shell command and a
// transcriber.
func NewCommandRecorder(command string, transcriber Transcriber, logger zerolog.Logger) *CommandRecorder {
	return &CommandRecorder{
		command:     command,
		transcriber: transcriber,
		logger:      logger.With().Str("component", "recorder").Logger(),
	}
}

// NextTranscript records one utterance and transcribes it.
func (r *CommandRecorder) NextTranscript(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", r.command)
	audio, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("record command: %w", err)
	}
	if len(audio) == 0 {
		return "", ErrNoSpeech
	}

	text, err := r.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	r.logger.Debug().Str("text", text).Msg("Utterance captured")
	return text, nil
}
