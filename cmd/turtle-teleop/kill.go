package main

import (
	"context"
	"fmt"

	"github.com/gwillem/turtle-teleop/pkg/sim"
)

type KillCommand struct {
	Bridge string `long:"bridge" description:"rosbridge websocket URL; overrides config"`
	Args   struct {
		Name string `positional-arg-name:"name" required:"yes"`
	} `positional-args:"yes"`
}

func (c *KillCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Bridge != "" {
		cfg.Bridge.URL = c.Bridge
	}
	log := newLogger(cfg.LogLevel)

	ctx := context.Background()
	client, err := sim.Dial(ctx, sim.ClientConfig{
		URL:         cfg.Bridge.URL,
		CallTimeout: cfg.Bridge.CallTimeout,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Kill(ctx, c.Args.Name); err != nil {
		return fmt.Errorf("kill %s: %w", c.Args.Name, err)
	}
	fmt.Println(successStyle.Render("Killed " + c.Args.Name))
	return nil
}
