// Package overlay pushes assistant state changes to the GUI overlay renderer
// over a websocket, so the avatar can animate listening, thinking and
// speaking.
package overlay

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// State is the assistant's externally visible activity.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateThinking  State = "thinking"
	StateSpeaking  State = "speaking"
	StateWakeWord  State = "wake_word"
)

// Notifier receives state transitions. Implementations must never block the
// conversation loop.
type Notifier interface {
	SetState(state State)
	Close() error
}

// Null is a Notifier that does nothing, used when the overlay is disabled.
type Null struct{}

func (Null) SetState(State) {}
func (Null) Close() error   { return nil }

// update is the wire message sent to the renderer.
type update struct {
	Type  string `json:"type"`
	State State  `json:"state"`
	TS    int64  `json:"ts"`
}

// Client streams state updates to the overlay endpoint. Updates are
// fire-and-forget: when the renderer is slow or disconnected, intermediate
// states are dropped rather than blocking a turn. The writer goroutine
// reconnects with backoff.
type Client struct {
	url     string
	updates chan State
	done    chan struct{}
	logger  zerolog.Logger
}

// NewClient starts the overlay writer for the given websocket URL.
func NewClient(url string, logger zerolog.Logger) *Client {
	c := &Client{
		url:     url,
		updates: make(chan State, 8),
		done:    make(chan struct{}),
		logger:  logger.With().Str("component", "overlay").Logger(),
	}
	go c.run()
	return c
}

// SetState queues a state update. A full queue drops the oldest update so
// the latest state always wins.
func (c *Client) SetState(state State) {
	for {
		select {
		case c.updates <- state:
			return
		default:
			select {
			case <-c.updates:
			default:
			}
		}
	}
}

// Close stops the writer goroutine.
func (c *Client) Close() error {
	close(c.done)
	return nil
}

func (c *Client) run() {
	var conn *websocket.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	backoff := time.Second
	for {
		select {
		case <-c.done:
			return
		case state := <-c.updates:
			if conn == nil {
				var err error
				conn, _, err = websocket.DefaultDialer.Dial(c.url, nil)
				if err != nil {
					c.logger.Debug().Err(err).Msg("Overlay not reachable, dropping state update")
					select {
					case <-c.done:
						return
					case <-time.After(backoff):
					}
					if backoff < 30*time.Second {
						backoff *= 2
					}
					continue
				}
				backoff = time.Second
				c.logger.Info().Str("url", c.url).Msg("Connected to overlay")
			}

			msg, err := json.Marshal(update{
				Type:  "state",
				State: state,
				TS:    time.Now().UnixMilli(),
			})
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Warn().Err(err).Msg("Overlay write failed, reconnecting")
				conn.Close()
				conn = nil
			}
		}
	}
}

var (
	_ Notifier = (*Client)(nil)
	_ Notifier = Null{}
)
