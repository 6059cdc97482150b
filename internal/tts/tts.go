// Package tts speaks the assistant's replies.
package tts

import (
	"context"
	"fmt"
	"io"
)

// Speaker voices one reply. Say blocks until playback (or printing) is done.
type Speaker interface {
	Name() string
	Say(ctx context.Context, text string) error
}

// ConsoleSpeaker prints replies instead of voicing them, for text mode.
type ConsoleSpeaker struct {
	out io.Writer
}

// NewConsoleSpeaker writes replies to out.
func NewConsoleSpeaker(out io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{out: out}
}

func (c *ConsoleSpeaker) Name() string { return "console" }

func (c *ConsoleSpeaker) Say(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.out, "Zen: %s\n", text)
	return err
}
