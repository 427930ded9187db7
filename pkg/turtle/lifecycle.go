package turtle

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gwillem/turtle-teleop/pkg/sim"
)

// ErrEmptyName is returned by Create for a blank name.
var ErrEmptyName = errors.New("turtle: name must not be empty")

// Spawner is the part of the simulator the lifecycle needs.
type Spawner interface {
	Spawn(ctx context.Context, name string, pose sim.Pose) error
	Kill(ctx context.Context, name string) error
}

// Manager owns one spawned turtle and makes sure it is killed exactly once.
type Manager struct {
	sim     Spawner
	id      Identity
	spawned bool
	log     zerolog.Logger

	destroyOnce sync.Once
}

// Option configures Create.
type Option func(*options)

type options struct {
	rand   *rand.Rand
	bounds SpawnBounds
	log    zerolog.Logger
}

// WithRand sets the random source for the spawn pose.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithBounds sets the spawn pose bounds.
func WithBounds(b SpawnBounds) Option {
	return func(o *options) { o.bounds = b }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Create spawns a turtle called name at a random pose. A failed spawn is
// logged and not returned: the manager is usable and Destroy still issues
// a kill, which the simulator ignores for unknown names.
func Create(ctx context.Context, s Spawner, name string, opts ...Option) (*Manager, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	o := options{bounds: DefaultSpawnBounds(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := &Manager{
		sim: s,
		id:  Identity{name: name, origin: RandomPose(o.rand, o.bounds)},
		log: o.log.With().Str("turtle", name).Logger(),
	}

	pose := m.id.origin
	if err := s.Spawn(ctx, name, pose); err != nil {
		m.log.Warn().Err(err).Msg("Spawn failed, continuing without a confirmed turtle")
		return m, nil
	}
	m.spawned = true
	m.log.Info().
		Float64("x", pose.X).
		Float64("y", pose.Y).
		Float64("theta", pose.Theta).
		Msg("Turtle spawned")
	return m, nil
}

// Identity returns the turtle identity.
func (m *Manager) Identity() Identity { return m.id }

// Topic returns the velocity command topic for the turtle.
func (m *Manager) Topic() string { return m.id.Topic() }

// Spawned reports whether the simulator acknowledged the spawn.
func (m *Manager) Spawned() bool { return m.spawned }

// Destroy kills the turtle. Only the first call reaches the simulator;
// concurrent callers wait for it to finish.
func (m *Manager) Destroy(ctx context.Context) {
	m.destroyOnce.Do(func() {
		if err := m.sim.Kill(ctx, m.id.name); err != nil {
			m.log.Warn().Err(err).Msg("Kill failed")
			return
		}
		m.log.Info().Msg("Turtle killed")
	})
}
