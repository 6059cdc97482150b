// Package wakeword detects the activation phrase in a transcript stream and
// wakes the session for one conversational turn.
package wakeword

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/metrics"
	"github.com/zen-ai/zen/internal/stt"
)

// Detector watches a transcript source for the wake word and invokes the
// callback with any command text that followed it in the same utterance.
type Detector struct {
	word   string
	source stt.Source
	onWake func(remainder string)
	logger zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a detector for the given wake word.
func New(word string, source stt.Source, onWake func(remainder string), logger zerolog.Logger) *Detector {
	return &Detector{
		word:   strings.ToLower(strings.TrimSpace(word)),
		source: source,
		onWake: onWake,
		logger: logger.With().Str("component", "wakeword").Logger(),
	}
}

// Start begins listening in a background goroutine.
func (d *Detector) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go d.run(ctx)
	d.logger.Info().Str("word", d.word).Msg("Wake word detection started")
}

// Stop halts detection and waits for the listener goroutine to exit.
func (d *Detector) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (d *Detector) run(ctx context.Context) {
	defer close(d.done)
	for {
		text, err := d.source.NextTranscript(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			if errors.Is(err, stt.ErrNoSpeech) {
				continue
			}
			d.logger.Warn().Err(err).Msg("Transcript source error")
			continue
		}

		if remainder, ok := d.Match(text); ok {
			d.logger.Info().Str("text", text).Msg("Wake word detected")
			metrics.WakeWordDetections.Inc()
			d.onWake(remainder)
		}
	}
}

// Match reports whether the utterance contains the wake word and returns the
// command text following it. "hey <word>" and "ok <word>" count as well.
func (d *Detector) Match(text string) (remainder string, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.Trim(normalized, ".,!?")

	for _, prefix := range []string{"hey " + d.word, "ok " + d.word, d.word} {
		if normalized == prefix {
			return "", true
		}
		if strings.HasPrefix(normalized, prefix+" ") {
			return strings.TrimSpace(strings.TrimPrefix(normalized, prefix)), true
		}
		if strings.HasPrefix(normalized, prefix+",") {
			return strings.TrimSpace(strings.TrimPrefix(normalized, prefix+",")), true
		}
	}
	return "", false
}
