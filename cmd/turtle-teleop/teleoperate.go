package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gwillem/turtle-teleop/pkg/sim"
	"github.com/gwillem/turtle-teleop/pkg/teleop"
	"github.com/gwillem/turtle-teleop/pkg/turtle"
)

type TeleoperateCommand struct {
	Name   string `long:"name" short:"n" description:"Turtle name (prompted for when empty)"`
	Bridge string `long:"bridge" description:"rosbridge websocket URL; overrides config"`
	DryRun bool   `long:"dry-run" description:"Log commands instead of connecting to a simulator"`
}

func (c *TeleoperateCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Bridge != "" {
		cfg.Bridge.URL = c.Bridge
	}

	name := c.Name
	if name == "" {
		if name, err = promptName(); err != nil {
			return fmt.Errorf("read name: %w", err)
		}
	} else if err := validateName(name); err != nil {
		return fmt.Errorf("--name: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	ctx := context.Background()

	simulator, err := c.connect(ctx, cfg, log)
	if err != nil {
		return err
	}

	session := &teleop.Session{
		Name:          name,
		Sim:           simulator,
		Input:         os.Stdin,
		ScaleLinear:   cfg.ScaleLinear,
		ScaleAngular:  cfg.ScaleAngular,
		Logger:        log,
		TurtleOptions: []turtle.Option{turtle.WithBounds(cfg.Spawn)},
		OnReady:       func() { printBanner(os.Stdout, name) },
	}
	return sessionError(session.Run(ctx))
}

// sessionError labels keyboard read failures like perror("read()") and
// everything else as a teleoperate failure.
func sessionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, teleop.ErrKeyboardRead):
		return fmt.Errorf("read(): %w", err)
	default:
		return fmt.Errorf("teleoperate: %w", err)
	}
}

func (c *TeleoperateCommand) connect(ctx context.Context, cfg *turtle.Config, log zerolog.Logger) (sim.Simulator, error) {
	if c.DryRun {
		rec := sim.NewRecorder()
		rec.OnEvent = func(ev sim.Event) { logEvent(log, ev) }
		log.Info().Msg("Dry run: no simulator connection")
		return rec, nil
	}

	client, err := sim.Dial(ctx, sim.ClientConfig{
		URL:         cfg.Bridge.URL,
		CallTimeout: cfg.Bridge.CallTimeout,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.Bridge.URL).Msg("Connected to rosbridge")
	return client, nil
}

func logEvent(log zerolog.Logger, ev sim.Event) {
	e := log.Info().Str("event", string(ev.Kind))
	switch ev.Kind {
	case sim.EventSpawn:
		e = e.Str("name", ev.Name).Float64("x", ev.Pose.X).Float64("y", ev.Pose.Y).Float64("theta", ev.Pose.Theta)
	case sim.EventKill:
		e = e.Str("name", ev.Name)
	case sim.EventPublish:
		e = e.Str("topic", ev.Topic).Float64("linear.x", ev.Twist.Linear.X).Float64("angular.z", ev.Twist.Angular.Z)
	}
	e.Msg("Simulator request")
}
