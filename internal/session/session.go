// Package session drives the conversation loop: capture an utterance, try
// the direct keyword commands, otherwise hand the text to the brain, and
// speak whatever comes back.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zen-ai/zen/internal/brain"
	"github.com/zen-ai/zen/internal/overlay"
	"github.com/zen-ai/zen/internal/stt"
	"github.com/zen-ai/zen/internal/system"
	"github.com/zen-ai/zen/internal/tts"
	"github.com/zen-ai/zen/internal/wakeword"
)

// SystemActions is the subset of system control the keyword fast path uses.
type SystemActions interface {
	OpenApplication(appName string) string
	CurrentTime() string
	SearchWeb(query string) string
	SystemInfo() string
}

var _ SystemActions = (*system.Controller)(nil)

// Options configures a Driver.
type Options struct {
	WakeWord     string // empty disables wake-word mode
	GreetingOnly bool   // skip the command hint banner
}

// Driver owns the foreground conversation loop.
type Driver struct {
	source  stt.Source
	speaker tts.Speaker
	brain   *brain.Brain
	actions SystemActions
	overlay overlay.Notifier
	opts    Options
	logger  zerolog.Logger
}

// New assembles a driver from its collaborators.
func New(source stt.Source, speaker tts.Speaker, b *brain.Brain, actions SystemActions, notifier overlay.Notifier, opts Options, logger zerolog.Logger) *Driver {
	if notifier == nil {
		notifier = overlay.Null{}
	}
	return &Driver{
		source:  source,
		speaker: speaker,
		brain:   b,
		actions: actions,
		overlay: notifier,
		opts:    opts,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// Run executes the conversation loop until the user exits, the source is
// exhausted or the context ends.
func (d *Driver) Run(ctx context.Context) error {
	if d.opts.WakeWord != "" {
		return d.runWakeWord(ctx)
	}
	return d.runContinuous(ctx)
}

func (d *Driver) runContinuous(ctx context.Context) error {
	d.say(ctx, "Hello! I'm Zen, your voice assistant. How can I help you today?")
	d.overlay.SetState(overlay.StateIdle)

	for {
		d.overlay.SetState(overlay.StateListening)
		text, err := d.source.NextTranscript(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
				d.overlay.SetState(overlay.StateIdle)
				return nil
			case errors.Is(err, stt.ErrNoSpeech):
				d.overlay.SetState(overlay.StateIdle)
				continue
			default:
				d.logger.Error().Err(err).Msg("Listen failed")
				d.say(ctx, "I encountered an error. Let me try again.")
				continue
			}
		}

		d.logger.Info().Str("text", text).Msg("Heard")
		if !d.handle(ctx, text) {
			d.overlay.SetState(overlay.StateIdle)
			return nil
		}
	}
}

func (d *Driver) runWakeWord(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.say(ctx, fmt.Sprintf("Hello! I'm Zen. Say '%s' or 'Hey %s' to activate me.", d.opts.WakeWord, d.opts.WakeWord))
	d.overlay.SetState(overlay.StateWakeWord)

	// The callback runs on the detector goroutine, which is blocked for its
	// duration, so reading the shared source here is race free.
	detector := wakeword.New(d.opts.WakeWord, d.source, func(remainder string) {
		if remainder == "" {
			d.say(ctx, "Yes?")
			d.overlay.SetState(overlay.StateListening)
			text, err := d.source.NextTranscript(ctx)
			if err != nil {
				d.overlay.SetState(overlay.StateWakeWord)
				return
			}
			remainder = text
		}
		if !d.handle(ctx, remainder) {
			cancel()
			return
		}
		d.overlay.SetState(overlay.StateWakeWord)
	}, d.logger)

	detector.Start(ctx)
	<-ctx.Done()
	detector.Stop()
	d.overlay.SetState(overlay.StateIdle)
	return nil
}

// handle processes one utterance. It returns false when the session should
// end.
func (d *Driver) handle(ctx context.Context, text string) bool {
	d.overlay.SetState(overlay.StateThinking)

	if quit := d.keywordCommand(ctx, text); quit != nil {
		return *quit
	}

	reply := d.brain.GetResponse(ctx, text)
	d.say(ctx, reply.Content)
	d.overlay.SetState(overlay.StateIdle)
	return true
}

var (
	openRe   = regexp.MustCompile(`open\s+(\w+)`)
	searchRe = regexp.MustCompile(`search\s+(?:for\s+)?(.+)`)
)

var exitWords = []string{"exit", "quit", "goodbye", "bye zen"}

// keywordCommand executes direct commands without a model round-trip. It
// returns nil when no command matched, otherwise whether to keep running.
func (d *Driver) keywordCommand(ctx context.Context, text string) *bool {
	lower := strings.ToLower(text)
	keep, stop := true, false

	for _, word := range exitWords {
		if strings.Contains(lower, word) {
			d.say(ctx, "Goodbye! Have a great day!")
			return &stop
		}
	}

	if strings.Contains(lower, "open") {
		if m := openRe.FindStringSubmatch(lower); m != nil {
			d.say(ctx, d.actions.OpenApplication(m[1]))
			return &keep
		}
	}

	for _, phrase := range []string{"what time", "current time", "what's the time"} {
		if strings.Contains(lower, phrase) {
			d.say(ctx, d.actions.CurrentTime())
			return &keep
		}
	}

	if strings.Contains(lower, "search for") ||
		(strings.Contains(lower, "search") && strings.Contains(lower, "google")) {
		if m := searchRe.FindStringSubmatch(lower); m != nil {
			d.say(ctx, d.actions.SearchWeb(m[1]))
			return &keep
		}
	}

	if strings.Contains(lower, "system") &&
		(strings.Contains(lower, "info") || strings.Contains(lower, "status")) {
		d.say(ctx, d.actions.SystemInfo())
		return &keep
	}

	return nil
}

func (d *Driver) say(ctx context.Context, text string) {
	d.overlay.SetState(overlay.StateSpeaking)
	if err := d.speaker.Say(ctx, text); err != nil {
		d.logger.Error().Err(err).Msg("Speech output failed")
	}
}
