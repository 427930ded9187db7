package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("turtle-teleop Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}

	url := cfg.Bridge.URL
	timeout := cfg.Bridge.CallTimeout.String()
	linear := strconv.FormatFloat(cfg.ScaleLinear, 'g', -1, 64)
	angular := strconv.FormatFloat(cfg.ScaleAngular, 'g', -1, 64)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("rosbridge URL").
				Description("Websocket address of the rosbridge server").
				Value(&url).
				Validate(validateBridgeURL),
			huh.NewInput().
				Title("Service call timeout").
				Value(&timeout).
				Validate(validateDuration),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Linear scale").
				Description("Forward speed per arrow key press").
				Value(&linear).
				Validate(validateScale),
			huh.NewInput().
				Title("Angular scale").
				Description("Turn rate per arrow key press").
				Value(&angular).
				Validate(validateScale),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.Bridge.URL = strings.TrimSpace(url)
	cfg.Bridge.CallTimeout, _ = time.ParseDuration(strings.TrimSpace(timeout))
	cfg.ScaleLinear, _ = strconv.ParseFloat(strings.TrimSpace(linear), 64)
	cfg.ScaleAngular, _ = strconv.ParseFloat(strings.TrimSpace(angular), 64)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start teleoperation with: " + subHeaderStyle.Render("turtle-teleop teleoperate"))
	return nil
}

func validateBridgeURL(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "ws://") && !strings.HasPrefix(s, "wss://") {
		return errors.New("must start with ws:// or wss://")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return errors.New("not a duration, e.g. 5s")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func validateScale(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("must be finite")
	}
	return nil
}
