package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gwillem/turtle-teleop/pkg/turtle"
)

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// loadFileConfig loads only the --config file, without environment or flag
// overrides, so setup never writes them back.
func loadFileConfig() (*turtle.Config, error) {
	return turtle.LoadConfigFile(opts.Config)
}

// loadConfig loads the config file named by --config and applies global flags.
func loadConfig() (*turtle.Config, error) {
	cfg, err := turtle.LoadConfigFrom(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}
