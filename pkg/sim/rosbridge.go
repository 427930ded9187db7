package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Service and message type names used by turtlesim.
const (
	SpawnService = "/spawn"
	KillService  = "/kill"
	TwistType    = "geometry_msgs/Twist"
)

const DefaultCallTimeout = 5 * time.Second

// ClientConfig configures a rosbridge connection.
type ClientConfig struct {
	URL         string
	CallTimeout time.Duration
	Logger      zerolog.Logger
	Dialer      *websocket.Dialer // nil means websocket.DefaultDialer
}

// outgoing is a rosbridge v2 protocol operation sent to the bridge.
type outgoing struct {
	Op      string `json:"op"`
	ID      string `json:"id,omitempty"`
	Service string `json:"service,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Type    string `json:"type,omitempty"`
	Args    any    `json:"args,omitempty"`
	Msg     any    `json:"msg,omitempty"`
}

// incoming is any operation received from the bridge.
type incoming struct {
	Op      string          `json:"op"`
	ID      string          `json:"id"`
	Service string          `json:"service"`
	Values  json.RawMessage `json:"values"`
	Result  *bool           `json:"result"`
	Level   string          `json:"level"`
	Msg     json.RawMessage `json:"msg"`
}

type spawnArgs struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
	Name  string  `json:"name"`
}

type killArgs struct {
	Name string `json:"name"`
}

// Client is a Simulator backed by a rosbridge websocket server.
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration
	log     zerolog.Logger

	writeMu sync.Mutex // gorilla allows a single concurrent writer

	mu         sync.Mutex
	pending    map[string]chan incoming
	advertised map[string]bool
	closed     bool
	readErr    error

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a rosbridge server.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if !strings.HasPrefix(cfg.URL, "ws://") && !strings.HasPrefix(cfg.URL, "wss://") {
		return nil, fmt.Errorf("bridge url %q: must start with ws:// or wss://", cfg.URL)
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge: %w", err)
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	c := &Client{
		conn:       conn,
		timeout:    cfg.CallTimeout,
		log:        cfg.Logger,
		pending:    make(map[string]chan incoming),
		advertised: make(map[string]bool),
		done:       make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var msg incoming
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			if !c.closed {
				c.readErr = fmt.Errorf("read bridge: %w", err)
			}
			c.mu.Unlock()
			return
		}

		switch msg.Op {
		case "service_response":
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			c.mu.Unlock()
			if !ok {
				c.log.Debug().Str("id", msg.ID).Msg("Unmatched service response")
				continue
			}
			select {
			case ch <- msg:
			default:
			}
		case "status":
			c.log.Debug().Str("level", msg.Level).RawJSON("msg", statusText(msg.Msg)).Msg("Bridge status")
		default:
			c.log.Debug().Str("op", msg.Op).Msg("Ignoring bridge operation")
		}
	}
}

func statusText(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte(`""`)
	}
	return raw
}

func (c *Client) send(op outgoing) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(op); err != nil {
		return fmt.Errorf("write %s: %w", op.Op, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, service string, args any) error {
	id := "call_service:" + service + ":" + uuid.NewString()
	ch := make(chan incoming, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.readErr != nil {
		err := c.readErr
		c.mu.Unlock()
		return err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.send(outgoing{Op: "call_service", ID: id, Service: service, Args: args}); err != nil {
		return err
	}

	select {
	case resp := <-ch:
		// Bridges older than protocol 2.0 omit result; absence means success.
		if resp.Result != nil && !*resp.Result {
			return fmt.Errorf("%s: %w: %s", service, ErrRejected, string(resp.Values))
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", service, ctx.Err())
	case <-c.done:
		c.mu.Lock()
		err := c.readErr
		c.mu.Unlock()
		if err == nil {
			err = ErrClosed
		}
		return fmt.Errorf("%s: %w", service, err)
	}
}

// Spawn calls turtlesim's /spawn service.
func (c *Client) Spawn(ctx context.Context, name string, pose Pose) error {
	return c.call(ctx, SpawnService, spawnArgs{X: pose.X, Y: pose.Y, Theta: pose.Theta, Name: name})
}

// Kill calls turtlesim's /kill service.
func (c *Client) Kill(ctx context.Context, name string) error {
	return c.call(ctx, KillService, killArgs{Name: name})
}

// Publish advertises topic on first use, then publishes twist to it.
func (c *Client) Publish(ctx context.Context, topic string, twist Twist) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	needAdvertise := !c.advertised[topic]
	c.advertised[topic] = true
	c.mu.Unlock()

	if needAdvertise {
		if err := c.send(outgoing{Op: "advertise", ID: "advertise:" + topic, Topic: topic, Type: TwistType}); err != nil {
			c.mu.Lock()
			delete(c.advertised, topic)
			c.mu.Unlock()
			return err
		}
	}
	return c.send(outgoing{Op: "publish", Topic: topic, Msg: twist})
}

// Close unadvertises published topics and closes the websocket.
// It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		topics := make([]string, 0, len(c.advertised))
		for topic := range c.advertised {
			topics = append(topics, topic)
		}
		c.mu.Unlock()

		for _, topic := range topics {
			if uerr := c.send(outgoing{Op: "unadvertise", ID: "advertise:" + topic, Topic: topic}); uerr != nil {
				c.log.Debug().Err(uerr).Str("topic", topic).Msg("Unadvertise failed")
			}
		}

		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
		<-c.done
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
	})
	return err
}
