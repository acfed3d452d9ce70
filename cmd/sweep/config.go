package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"krakensweep/pkg/core"
)

func configFromContext(c *cli.Context) (*core.Config, error) {
	config := core.DefaultConfig("kraken").
		WithCredentials(&core.Credentials{
			APIKey:    c.String(APIKeyFlag.Name),
			SecretKey: c.String(APISecretFlag.Name),
		}).
		WithBaseURL(c.String(BaseURLFlag.Name)).
		WithTimeout(c.Duration(TimeoutFlag.Name)).
		WithPair(c.String(AssetFlag.Name), c.String(PairFlag.Name)).
		WithValidateOnly(c.Bool(ValidateOnlyFlag.Name))
	config.LogLevel = c.String(LogLevelFlag.Name)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
