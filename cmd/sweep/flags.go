package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"krakensweep/pkg/core"
)

var (
	APIKeyFlag = &cli.StringFlag{
		Name:     "api-key",
		Usage:    "Kraken API `key`",
		EnvVars:  []string{"KRAKEN_API_KEY"},
		Required: true,
	}
	APISecretFlag = &cli.StringFlag{
		Name:     "api-secret",
		Usage:    "base64 Kraken API `secret`",
		EnvVars:  []string{"KRAKEN_API_SECRET"},
		Required: true,
	}
	AssetFlag = &cli.StringFlag{
		Name:  "asset",
		Value: "USDC",
		Usage: "balance `code` to sell",
	}
	PairFlag = &cli.StringFlag{
		Name:  "pair",
		Value: "USDCUSD",
		Usage: "trading `pair` the asset is sold on",
	}
	BaseURLFlag = &cli.StringFlag{
		Name:  "base-url",
		Value: core.DefaultBaseURL,
		Usage: "REST API base `url`",
	}
	TimeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Value: 30 * time.Second,
		Usage: "overall run `timeout`, also the limit for each request",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "log `level`: debug, info, warn or error",
	}
	ValidateOnlyFlag = &cli.BoolFlag{
		Name:  "validate-only",
		Usage: "ask the exchange to validate the order without placing it",
	}
)
