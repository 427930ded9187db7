// Package turtle owns the controlled turtle: its identity, where it is
// spawned, and its lifecycle in the simulator.
package turtle

import (
	"math/rand/v2"

	"github.com/gwillem/turtle-teleop/pkg/sim"
)

// SpawnBounds limits the random origin pose. Each component is drawn
// uniformly from [0, Max].
type SpawnBounds struct {
	MaxX     float64 `toml:"max_x" split_words:"true"`
	MaxY     float64 `toml:"max_y" split_words:"true"`
	MaxTheta float64 `toml:"max_theta" split_words:"true"`
}

// DefaultSpawnBounds covers the turtlesim window and a half turn of heading.
func DefaultSpawnBounds() SpawnBounds {
	return SpawnBounds{MaxX: 11.0, MaxY: 11.0, MaxTheta: 3.14}
}

// Contains reports whether p lies within the bounds.
func (b SpawnBounds) Contains(p sim.Pose) bool {
	return p.X >= 0 && p.X <= b.MaxX &&
		p.Y >= 0 && p.Y <= b.MaxY &&
		p.Theta >= 0 && p.Theta <= b.MaxTheta
}

// RandomPose draws a pose within b from r.
func RandomPose(r *rand.Rand, b SpawnBounds) sim.Pose {
	return sim.Pose{
		X:     r.Float64() * b.MaxX,
		Y:     r.Float64() * b.MaxY,
		Theta: r.Float64() * b.MaxTheta,
	}
}

// Identity is a turtle's name and origin pose. It never changes after creation.
type Identity struct {
	name   string
	origin sim.Pose
}

// Name returns the turtle name.
func (id Identity) Name() string { return id.name }

// Origin returns the pose the turtle was spawned at.
func (id Identity) Origin() sim.Pose { return id.origin }

// Topic returns the velocity command topic bound to the name.
func (id Identity) Topic() string { return sim.CmdVelTopic(id.name) }
