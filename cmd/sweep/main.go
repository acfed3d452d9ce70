package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"

	"krakensweep/pkg/exchange"
	"krakensweep/pkg/exchange/kraken"
	"krakensweep/pkg/sweep"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "sell the whole balance of one asset on Kraken with a market order",
		Flags: []cli.Flag{
			APIKeyFlag,
			APISecretFlag,
			AssetFlag,
			PairFlag,
			BaseURLFlag,
			TimeoutFlag,
			LogLevelFlag,
			ValidateOnlyFlag,
		},
		Action: run,
	}
}

// run exits cleanly whatever the sweep outcome. Only bad configuration,
// bad credentials and cancellation surface as errors.
func run(c *cli.Context) error {
	config, err := configFromContext(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, config.Timeout)
	defer cancel()

	logger := newLogger(c.App.ErrWriter, config.LogLevel)

	container := exchange.NewContainer()
	defer func() {
		if err := container.CloseAll(); err != nil {
			logger.Warn().Err(err).Msg("close exchanges")
		}
	}()

	if _, err := kraken.Register(container, config, kraken.WithLogger(logger)); err != nil {
		return err
	}
	ex, err := container.Get(config.Exchange)
	if err != nil {
		return err
	}

	sweeper, err := sweep.New(ex,
		sweep.WithAsset(config.Asset),
		sweep.WithPair(config.Pair),
		sweep.WithValidateOnly(config.ValidateOnly),
		sweep.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	out, runErr := sweeper.Run(ctx)
	if out != nil {
		data, err := sonic.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal outcome: %w", err)
		}
		_, _ = fmt.Fprintln(c.App.Writer, string(data))
	}
	return runErr
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
