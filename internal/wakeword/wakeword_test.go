package wakeword

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanSource feeds scripted transcripts.
type chanSource struct {
	lines chan string
}

func (c *chanSource) NextTranscript(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func TestMatch(t *testing.T) {
	d := New("zen", nil, nil, zerolog.Nop())

	tests := []struct {
		text      string
		remainder string
		ok        bool
	}{
		{"zen", "", true},
		{"Zen!", "", true},
		{"hey zen", "", true},
		{"ok zen", "", true},
		{"Hey Zen, what time is it", "what time is it", true},
		{"zen open firefox", "open firefox", true},
		{"has zen been seen", "", false},
		{"zenith of my career", "", false},
		{"completely unrelated", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			remainder, ok := d.Match(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.remainder, remainder)
		})
	}
}

func TestDetector_InvokesCallback(t *testing.T) {
	src := &chanSource{lines: make(chan string, 4)}
	woke := make(chan string, 4)

	d := New("zen", src, func(remainder string) { woke <- remainder }, zerolog.Nop())
	d.Start(context.Background())
	defer d.Stop()

	src.lines <- "nothing interesting"
	src.lines <- "hey zen what's the weather"

	select {
	case remainder := <-woke:
		assert.Equal(t, "what's the weather", remainder)
	case <-time.After(time.Second):
		t.Fatal("wake callback never fired")
	}
	require.Empty(t, woke, "non-matching utterances must not wake")
}

func TestDetector_StopTerminatesListener(t *testing.T) {
	src := &chanSource{lines: make(chan string)}
	d := New("zen", src, func(string) {}, zerolog.Nop())

	d.Start(context.Background())
	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not terminate the listener")
	}

	// Stop is safe to call again.
	d.Stop()
}
