package system

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRunner records invocations instead of launching anything.
type spyRunner struct {
	calls [][]string
	err   error
}

func (s *spyRunner) Run(name string, args ...string) error {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.err
}

func (s *spyRunner) Start(name string, args ...string) error {
	return s.Run(name, args...)
}

func newTestController(goos string) (*Controller, *spyRunner) {
	spy := &spyRunner{}
	return &Controller{
		runner: spy,
		goos:   goos,
		now:    func() time.Time { return time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC) },
		logger: zerolog.Nop(),
	}, spy
}

func TestOpenApplication_ResolvesAlias(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.OpenApplication("chrome")
	assert.Equal(t, "Opened chrome successfully.", got)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, []string{"google-chrome"}, spy.calls[0])
}

func TestOpenApplication_DarwinUsesOpen(t *testing.T) {
	c, spy := newTestController("darwin")

	c.OpenApplication("Safari")
	require.Len(t, spy.calls, 1)
	assert.Equal(t, []string{"open", "-a", "Safari"}, spy.calls[0])
}

func TestOpenApplication_Failure(t *testing.T) {
	c, spy := newTestController("linux")
	spy.err = assert.AnError

	got := c.OpenApplication("mystery")
	assert.Equal(t, "Sorry, I couldn't open mystery.", got)
}

func TestCurrentTime_SpokenFormat(t *testing.T) {
	c, _ := newTestController("linux")

	got := c.CurrentTime()
	assert.Equal(t, "It's 3:04 PM on Tuesday, March 10, 2026.", got)
}

func TestSearchWeb_EscapesQuery(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.SearchWeb("go generics tutorial")
	assert.Equal(t, "Searching the web for go generics tutorial.", got)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, "xdg-open", spy.calls[0][0])
	assert.Contains(t, spy.calls[0][1], "go+generics+tutorial")
}

func TestPlayYouTube(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.PlayYouTube("lofi beats")
	assert.Equal(t, "Opening YouTube results for lofi beats.", got)
	require.Len(t, spy.calls, 1)
	assert.Contains(t, spy.calls[0][1], "youtube.com/results?search_query=lofi+beats")
}

func TestControlMedia(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.ControlMedia("next")
	assert.Equal(t, "Executed media command: next", got)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, []string{"xdotool", "key", "XF86AudioNext"}, spy.calls[0])
}

func TestControlMedia_UnknownAction(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.ControlMedia("rewind")
	assert.Equal(t, "Unknown media action: rewind", got)
	assert.Empty(t, spy.calls)
}

func TestSetVolume_ClampsLevel(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.SetVolume(150)
	assert.Equal(t, "Volume set to 100 percent.", got)
	require.Len(t, spy.calls, 1)
	assert.Contains(t, spy.calls[0], "100%")

	got = c.SetVolume(-5)
	assert.Equal(t, "Volume set to 0 percent.", got)
}

func TestShutdown_RequiresConfirmation(t *testing.T) {
	c, spy := newTestController("linux")

	got := c.Shutdown(false)
	assert.Equal(t, "Shutdown cancelled.", got)
	assert.Empty(t, spy.calls, "no command may run without confirmation")

	got = c.Shutdown(true)
	assert.Equal(t, "Shutting down in 30 seconds.", got)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, "shutdown", spy.calls[0][0])
}

func TestRestart_RequiresConfirmation(t *testing.T) {
	c, spy := newTestController("windows")

	got := c.Restart(false)
	assert.Equal(t, "Restart cancelled.", got)
	assert.Empty(t, spy.calls)

	got = c.Restart(true)
	assert.Equal(t, "Restarting in 30 seconds.", got)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, []string{"shutdown", "/r", "/t", "30"}, spy.calls[0])
}
