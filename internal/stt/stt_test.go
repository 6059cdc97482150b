package stt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhisper_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake-wav"), data)

		fmt.Fprint(w, `{"text": " open firefox "}`)
	}))
	defer srv.Close()

	w := NewWhisper(WhisperConfig{APIKey: "test-key", Language: "en", URL: srv.URL}, zerolog.Nop())
	text, err := w.Transcribe(context.Background(), []byte("fake-wav"))
	require.NoError(t, err)
	assert.Equal(t, "open firefox", text)
}

func TestWhisper_EmptyAudio(t *testing.T) {
	w := NewWhisper(WhisperConfig{APIKey: "test-key"}, zerolog.Nop())
	_, err := w.Transcribe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestWhisper_EmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"text": "  "}`)
	}))
	defer srv.Close()

	w := NewWhisper(WhisperConfig{APIKey: "test-key", URL: srv.URL}, zerolog.Nop())
	_, err := w.Transcribe(context.Background(), []byte("silence"))
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestWhisper_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid key"}}`)
	}))
	defer srv.Close()

	w := NewWhisper(WhisperConfig{APIKey: "bad", URL: srv.URL}, zerolog.Nop())
	_, err := w.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestWhisper_MissingKey(t *testing.T) {
	w := NewWhisper(WhisperConfig{}, zerolog.Nop())
	_, err := w.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConsoleSource_SkipsBlankLines(t *testing.T) {
	src := NewConsoleSource(strings.NewReader("\n\n  hello there  \nsecond\n"))

	text, err := src.NextTranscript(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)

	text, err = src.NextTranscript(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	_, err = src.NextTranscript(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleSource_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewConsoleSource(strings.NewReader("pending\n"))
	_, err := src.NextTranscript(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubTranscriber struct {
	text string
	err  error
	got  []byte
}

func (s *stubTranscriber) Name() string { return "stub" }

func (s *stubTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	s.got = audio
	return s.text, s.err
}

func TestCommandRecorder_PipesAudioToTranscriber(t *testing.T) {
	tr := &stubTranscriber{text: "what time is it"}
	rec := NewCommandRecorder("printf wav-bytes", tr, zerolog.Nop())

	text, err := rec.NextTranscript(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "what time is it", text)
	assert.Equal(t, []byte("wav-bytes"), tr.got)
}

func TestCommandRecorder_EmptyCapture(t *testing.T) {
	rec := NewCommandRecorder("true", &stubTranscriber{}, zerolog.Nop())
	_, err := rec.NextTranscript(context.Background())
	assert.ErrorIs(t, err, ErrNoSpeech)
}
