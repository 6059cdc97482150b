// Package stt turns captured audio into transcripts and exposes the input
// sources the session loop listens on.
package stt

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when a capture window contains no usable speech.
var ErrNoSpeech = errors.New("no speech detected")

// Transcriber converts one utterance of audio into text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Source delivers user utterances to the session loop. NextTranscript
// blocks until an utterance is available, the source is exhausted (io.EOF)
// or the context ends.
type Source interface {
	NextTranscript(ctx context.Context) (string, error)
}
