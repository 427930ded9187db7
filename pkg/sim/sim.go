// Package sim talks to the turtle simulation: spawning and killing named
// turtles and publishing velocity commands to them.
package sim

import (
	"context"
	"errors"
)

var (
	// ErrRejected is returned when the simulator answers a service call with a failure.
	ErrRejected = errors.New("sim: request rejected")
	// ErrClosed is returned for calls made after Close.
	ErrClosed = errors.New("sim: connection closed")
)

// Pose is a position and heading in the simulator's world frame.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Vector3 mirrors geometry_msgs/Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Twist mirrors geometry_msgs/Twist.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// Simulator is the remote side of teleoperation.
type Simulator interface {
	// Spawn creates a turtle called name at pose.
	Spawn(ctx context.Context, name string, pose Pose) error
	// Kill removes the turtle called name.
	Kill(ctx context.Context, name string) error
	// Publish sends a velocity command on topic. Delivery is not confirmed.
	Publish(ctx context.Context, topic string, twist Twist) error
	// Close releases the connection.
	Close() error
}

// CmdVelTopic returns the velocity command topic for a turtle.
func CmdVelTopic(name string) string {
	return "/" + name + "/cmd_vel"
}
