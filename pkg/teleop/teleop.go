// Package teleop turns keypresses into velocity commands for a turtle.
package teleop

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gwillem/turtle-teleop/pkg/sim"
)

// ErrKeyboardRead wraps every failure to read a key, including end of input.
var ErrKeyboardRead = errors.New("read keyboard")

// Publisher sends velocity commands.
type Publisher interface {
	Publish(ctx context.Context, topic string, twist sim.Twist) error
}

// Config holds configuration for the controller.
type Config struct {
	Topic        string
	ScaleLinear  float64
	ScaleAngular float64
	Publisher    Publisher
	Logger       zerolog.Logger
}

// Controller runs the keyboard control loop.
type Controller struct {
	topic        string
	scaleLinear  float64
	scaleAngular float64
	pub          Publisher
	log          zerolog.Logger

	published int
}

// NewController creates a new keyboard controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Publisher == nil {
		return nil, fmt.Errorf("teleop: publisher is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("teleop: topic is required")
	}
	return &Controller{
		topic:        cfg.Topic,
		scaleLinear:  cfg.ScaleLinear,
		scaleAngular: cfg.ScaleAngular,
		pub:          cfg.Publisher,
		log:          cfg.Logger,
	}, nil
}

// Published returns the number of commands sent so far.
func (c *Controller) Published() int {
	return c.published
}

// Command scales an intent into a velocity command.
func (c *Controller) Command(in Intent) sim.Twist {
	return sim.Twist{
		Linear:  sim.Vector3{X: c.scaleLinear * in.Linear},
		Angular: sim.Vector3{Z: c.scaleAngular * in.Angular},
	}
}

// Run reads r one byte at a time until the quit key, returning nil. Any read
// failure, including end of input, is returned. The read blocks; ctx is only
// passed on to the publisher.
func (c *Controller) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 0 {
			if err == nil {
				continue
			}
			return fmt.Errorf("%w: %w", ErrKeyboardRead, err)
		}

		key := buf[0]
		action, intent := Decode(key)
		c.log.Debug().Str("key", KeyName(key)).Msgf("value: 0x%02X", key)

		switch action {
		case ActionQuit:
			return nil
		case ActionNone:
			continue
		}

		c.publish(ctx, c.Command(intent))
	}
}

func (c *Controller) publish(ctx context.Context, twist sim.Twist) {
	c.published++
	if err := c.pub.Publish(ctx, c.topic, twist); err != nil {
		c.log.Debug().Err(err).Str("topic", c.topic).Msg("Publish failed")
	}
}
