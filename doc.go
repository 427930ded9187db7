// Package turtleteleop drives a turtlesim turtle from the keyboard.
//
// A turtle is spawned under a name you choose, steered with the arrow keys,
// and killed again when you press q or interrupt the program. The simulator
// is reached through a rosbridge websocket server.
//
// # Installation
//
//	go install github.com/gwillem/turtle-teleop/cmd/turtle-teleop@latest
//
// # Usage
//
// Optionally write a configuration file:
//
//	turtle-teleop setup
//
// Then start teleoperation:
//
//	turtle-teleop teleoperate --name alice
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/turtle-teleop: CLI with teleoperate, setup and kill commands
//   - pkg/teleop: Key decoding, the control loop and the session teardown
//   - pkg/turtle: Turtle identity, spawn/kill lifecycle and configuration
//   - pkg/rawterm: Terminal raw mode
//   - pkg/sim: Simulator interface and rosbridge client
package turtleteleop
