package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config   string `long:"config" short:"c" default:"turtle-teleop.toml" description:"Configuration file"`
	LogLevel string `long:"log-level" description:"Log level (debug, info, warn, error); overrides config"`

	Teleoperate TeleoperateCommand `command:"teleoperate" alias:"teleop" description:"Spawn a turtle and drive it with the arrow keys (default)"`
	Setup       SetupCommand       `command:"setup" description:"Write the configuration file interactively"`
	Kill        KillCommand        `command:"kill" description:"Kill a turtle left behind by an earlier session"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "turtle-teleop - keyboard teleoperation for turtlesim over rosbridge"
	parser.SubcommandsOptional = true

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	// No command given: teleoperate with defaults.
	if parser.Active == nil {
		if err := opts.Teleoperate.Execute(nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
