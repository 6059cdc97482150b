// Package system implements the OS automation actions the model can invoke:
// opening applications, media keys, volume, web search and power control.
// Every action returns a short, speakable status string.
package system

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner launches external commands. The indirection exists so tests can
// observe invocations without touching the host.
type Runner interface {
	Run(name string, args ...string) error
	Start(name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (execRunner) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Controller performs system actions through a Runner.
type Controller struct {
	runner Runner
	goos   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewController creates a controller for the host OS.
func NewController(logger zerolog.Logger) *Controller {
	return &Controller{
		runner: execRunner{},
		goos:   runtime.GOOS,
		now:    time.Now,
		logger: logger.With().Str("component", "system").Logger(),
	}
}

// Known application aliases per OS.
var appMaps = map[string]map[string]string{
	"windows": {
		"notepad":    "notepad.exe",
		"calculator": "calc.exe",
		"paint":      "mspaint.exe",
		"chrome":     "chrome.exe",
		"firefox":    "firefox.exe",
		"edge":       "msedge.exe",
		"explorer":   "explorer.exe",
		"cmd":        "cmd.exe",
		"powershell": "powershell.exe",
	},
	"darwin": {
		"chrome":     "Google Chrome",
		"firefox":    "Firefox",
		"safari":     "Safari",
		"terminal":   "Terminal",
		"calculator": "Calculator",
		"notes":      "Notes",
		"finder":     "Finder",
	},
	"linux": {
		"chrome":     "google-chrome",
		"firefox":    "firefox",
		"terminal":   "x-terminal-emulator",
		"calculator": "gnome-calculator",
		"files":      "nautilus",
	},
}

// OpenApplication launches the named application, resolving common aliases
// for the host OS first and falling back to the raw name.
func (c *Controller) OpenApplication(appName string) string {
	name := appName
	if mapped, ok := appMaps[c.goos][strings.ToLower(appName)]; ok {
		name = mapped
	}

	var err error
	switch c.goos {
	case "darwin":
		err = c.runner.Start("open", "-a", name)
	case "windows":
		err = c.runner.Start("cmd", "/c", "start", "", name)
	default:
		err = c.runner.Start(name)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("app", appName).Msg("Failed to open application")
		return fmt.Sprintf("Sorry, I couldn't open %s.", appName)
	}
	c.logger.Info().Str("app", appName).Msg("Opened application")
	return fmt.Sprintf("Opened %s successfully.", appName)
}

// CurrentTime returns the spoken date and time.
func (c *Controller) CurrentTime() string {
	now := c.now()
	return fmt.Sprintf("It's %s on %s.",
		now.Format("3:04 PM"),
		now.Format("Monday, January 2, 2006"))
}

// SearchWeb opens a Google search in the default browser.
func (c *Controller) SearchWeb(query string) string {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := c.openURL(searchURL); err != nil {
		c.logger.Error().Err(err).Msg("Failed to open browser")
		return "Sorry, I couldn't open the web browser."
	}
	c.logger.Info().Str("query", query).Msg("Web search")
	return fmt.Sprintf("Searching the web for %s.", query)
}

// PlayYouTube opens YouTube search results for the query.
func (c *Controller) PlayYouTube(query string) string {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	if err := c.openURL(searchURL); err != nil {
		c.logger.Error().Err(err).Msg("Failed to open YouTube")
		return fmt.Sprintf("Error playing YouTube: %v", err)
	}
	c.logger.Info().Str("query", query).Msg("YouTube search")
	return fmt.Sprintf("Opening YouTube results for %s.", query)
}

func (c *Controller) openURL(u string) error {
	switch c.goos {
	case "darwin":
		return c.runner.Start("open", u)
	case "windows":
		return c.runner.Start("cmd", "/c", "start", "", u)
	default:
		return c.runner.Start("xdg-open", u)
	}
}

// SystemInfo reports host name, OS and CPU count.
func (c *Controller) SystemInfo() string {
	return fmt.Sprintf("System: %s %s, CPUs: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}

// Media actions accepted by ControlMedia, mapped to the desktop media keys.
var mediaKeys = map[string]struct{ darwin, linux string }{
	"play":        {`tell application "Music" to playpause`, "XF86AudioPlay"},
	"pause":       {`tell application "Music" to playpause`, "XF86AudioPlay"},
	"next":        {`tell application "Music" to next track`, "XF86AudioNext"},
	"previous":    {`tell application "Music" to previous track`, "XF86AudioPrev"},
	"volume_up":   {"set volume output volume ((output volume of (get volume settings)) + 10)", "XF86AudioRaiseVolume"},
	"volume_down": {"set volume output volume ((output volume of (get volume settings)) - 10)", "XF86AudioLowerVolume"},
	"mute":        {"set volume with output muted", "XF86AudioMute"},
}

// ControlMedia sends a media key to the desktop session.
func (c *Controller) ControlMedia(action string) string {
	keys, ok := mediaKeys[action]
	if !ok {
		return fmt.Sprintf("Unknown media action: %s", action)
	}

	var err error
	switch c.goos {
	case "darwin":
		err = c.runner.Run("osascript", "-e", keys.darwin)
	case "linux":
		err = c.runner.Run("xdotool", "key", keys.linux)
	default:
		return "Media control is not supported on this platform yet."
	}
	if err != nil {
		c.logger.Error().Err(err).Str("action", action).Msg("Media control failed")
		return fmt.Sprintf("Error controlling media: %v", err)
	}
	c.logger.Info().Str("action", action).Msg("Media action")
	return fmt.Sprintf("Executed media command: %s", action)
}

// SetVolume sets the master volume to a 0-100 level. Out-of-range values are
// clamped.
func (c *Controller) SetVolume(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	var err error
	switch c.goos {
	case "darwin":
		err = c.runner.Run("osascript", "-e", fmt.Sprintf("set volume output volume %d", level))
	case "linux":
		err = c.runner.Run("amixer", "-D", "pulse", "sset", "Master", fmt.Sprintf("%d%%", level))
	case "windows":
		// nircmd takes a 0-65535 scale.
		err = c.runner.Run("nircmd.exe", "setsysvolume", fmt.Sprintf("%d", level*65535/100))
	default:
		return "Volume control is not supported on this platform yet."
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to set volume")
		return "Sorry, I couldn't adjust the volume."
	}
	c.logger.Info().Int("level", level).Msg("Volume set")
	return fmt.Sprintf("Volume set to %d percent.", level)
}

// Shutdown powers off the host after a 30 second delay. Without confirm the
// action is refused and no command runs.
func (c *Controller) Shutdown(confirm bool) string {
	if !confirm {
		return "Shutdown cancelled."
	}

	var err error
	switch c.goos {
	case "windows":
		err = c.runner.Run("shutdown", "/s", "/t", "30")
	default:
		err = c.runner.Run("shutdown", "-h", "+1")
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Shutdown failed")
		return "Sorry, I couldn't shutdown the system."
	}
	c.logger.Warn().Msg("System shutdown initiated")
	return "Shutting down in 30 seconds."
}

// Restart reboots the host after a 30 second delay. Without confirm the
// action is refused and no command runs.
func (c *Controller) Restart(confirm bool) string {
	if !confirm {
		return "Restart cancelled."
	}

	var err error
	switch c.goos {
	case "windows":
		err = c.runner.Run("shutdown", "/r", "/t", "30")
	default:
		err = c.runner.Run("shutdown", "-r", "+1")
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Restart failed")
		return "Sorry, I couldn't restart the system."
	}
	c.logger.Warn().Msg("System restart initiated")
	return "Restarting in 30 seconds."
}
