package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"voightkampff/internal/app/domain/event"
	"voightkampff/pkg/logger"
)

const clientName = "voightkampff"

// Client is a websocket connection to the assistant's message bus. It
// records every incoming message into an append-only queue that the
// polling layer reads as snapshots; nothing is ever removed while a
// scenario runs.
type Client struct {
	log logger.Logger
	url string

	limiter *rate.Limiter

	writeMu sync.Mutex
	conn    *websocket.Conn

	queueMu sync.RWMutex
	queue   []event.Message

	speakMu  sync.Mutex
	speaking bool

	identMu   sync.Mutex
	lastIdent float64

	closed chan struct{}
	once   sync.Once
}

// New prepares a client for the given websocket URL. Outbound traffic
// is paced by emitEvery so scripted utterances don't flood the
// assistant faster than a user could speak.
func New(log logger.Logger, url string, emitEvery time.Duration) *Client {
	if emitEvery <= 0 {
		emitEvery = 100 * time.Millisecond
	}
	return &Client{
		log:     log,
		url:     url,
		limiter: rate.NewLimiter(rate.Every(emitEvery), 1),
		closed:  make(chan struct{}),
	}
}

// Connect dials the bus and starts the listener goroutine. The
// listener redials on read errors until Close is called.
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("connect to message bus %s: %w", c.url, err)
	}

	c.conn = conn
	c.log.Info("Connected to message bus", "url", c.url)

	go c.listen(conn)
	return nil
}

func (c *Client) Close() error {
	c.once.Do(func() { close(c.closed) })
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) listen(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return
			default:
			}

			c.log.Warn("Bus connection lost, retrying", "error", err.Error())
			conn = c.redial()
			if conn == nil {
				return
			}
			continue
		}

		var msg event.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Error("Failed to decode bus message", err, "raw", string(raw))
			continue
		}

		c.track(msg)

		c.queueMu.Lock()
		c.queue = append(c.queue, msg)
		c.queueMu.Unlock()
	}
}

func (c *Client) redial() *websocket.Conn {
	for {
		select {
		case <-c.closed:
			return nil
		case <-time.After(time.Second):
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			c.log.Warn("Bus redial failed", "error", err.Error())
			continue
		}

		c.writeMu.Lock()
		c.conn = conn
		c.writeMu.Unlock()
		c.log.Info("Reconnected to message bus", "url", c.url)
		return conn
	}
}

// track keeps the speaking flag current from the audio output
// lifecycle messages.
func (c *Client) track(msg event.Message) {
	switch msg.Type {
	case event.TypeAudioOutputStart:
		c.speakMu.Lock()
		c.speaking = true
		c.speakMu.Unlock()
	case event.TypeAudioOutputEnd:
		c.speakMu.Lock()
		c.speaking = false
		c.speakMu.Unlock()
	}
}

// Emit writes one message to the bus, honoring the pacing limiter.
func (c *Client) Emit(ctx context.Context, msg event.Message) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode bus message: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("bus not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// EmitUtterance submits one simulated user utterance.
func (c *Client) EmitUtterance(ctx context.Context, text, lang, session string) error {
	c.log.Debug("Emitting utterance", "text", text, "lang", lang)
	return c.Emit(ctx, event.Message{
		Type: event.TypeUtterance,
		Data: map[string]any{
			"utterances": []string{text},
			"lang":       lang,
			"session":    session,
			"ident":      c.nextIdent(),
		},
		Context: map[string]any{"client_name": clientName},
	})
}

// nextIdent returns a time-based identifier guaranteed to increase
// even for utterances emitted within the same clock tick.
func (c *Client) nextIdent() float64 {
	c.identMu.Lock()
	defer c.identMu.Unlock()

	ident := float64(time.Now().UnixNano()) / float64(time.Second)
	if ident <= c.lastIdent {
		ident = c.lastIdent + 1e-6
	}
	c.lastIdent = ident
	return ident
}

// Messages returns a snapshot of every received message of the given
// type, in arrival order.
func (c *Client) Messages(msgType string) []event.Message {
	c.queueMu.RLock()
	defer c.queueMu.RUnlock()

	var out []event.Message
	for _, m := range c.queue {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

// Clear empties the queue. Called between scenarios so one scenario's
// responses cannot satisfy the next one's assertions.
func (c *Client) Clear() {
	c.queueMu.Lock()
	c.queue = nil
	c.queueMu.Unlock()
}

// WaitWhileSpeaking blocks until the assistant's audio output goes
// quiet, or the timeout elapses.
func (c *Client) WaitWhileSpeaking(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c.speakMu.Lock()
		speaking := c.speaking
		c.speakMu.Unlock()
		if !speaking {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
