package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config is read from the environment, optionally seeded by a .env file.
// Flags override it per command.
type config struct {
	Forms     string `env:"FORMRULES_FORMS"`
	Output    string `env:"FORMRULES_OUTPUT" envDefault:"json"`
	Theme     string `env:"FORMRULES_THEME"`
	LogLevel  string `env:"FORMRULES_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"FORMRULES_LOG_FORMAT" envDefault:"text"`
}

func loadConfig(envFiles ...string) (config, error) {
	// a missing .env file is fine
	_ = godotenv.Load(envFiles...)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config, out io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: must be text or json", cfg.LogFormat)
	}
}
