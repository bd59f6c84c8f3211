// Package cli wires the sfv commands: create, check and splits.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sfvtool/internal/config"
	"sfvtool/internal/logging"
)

const name = "sfv"

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // at least one record did not match
	ExitError  = 2 // usage, manifest, config or I/O error
)

// overridden during build with ldflags
var version = "dev"

type app struct {
	cfg config.Config
	log *zap.SugaredLogger
}

// keepExitCodes stops the cli package from calling os.Exit on its own; Run
// maps errors to exit codes instead.
func keepExitCodes(context.Context, *cli.Command, error) {}

func newRootCmd(a *app) *cli.Command {
	root := &cli.Command{
		Name:    name,
		Usage:   "create and check SFV (CRC-32) manifests",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML or TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "disable the progress bar",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			if cmd.IsSet("log-level") {
				cfg.LogLevel = cmd.String("log-level")
			}
			if cmd.Bool("no-progress") {
				cfg.Progress = false
			}

			log, err := logging.New(name, cfg.LogLevel, cmd.Root().ErrWriter)
			if err != nil {
				return ctx, err
			}

			a.cfg = cfg
			a.log = log
			return ctx, nil
		},
		After: func(_ context.Context, _ *cli.Command) error {
			if a.log != nil {
				_ = a.log.Sync()
			}
			return nil
		},
		ExitErrHandler: keepExitCodes,
		Commands: []*cli.Command{
			createCmd(a),
			checkCmd(a),
			splitsCmd(a),
		},
	}
	for _, sub := range root.Commands {
		sub.ExitErrHandler = keepExitCodes
	}
	return root
}

// Run executes the sfv command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{log: logging.Nop()}
	root := newRootCmd(a)
	root.Writer = stdout
	root.ErrWriter = stderr

	err := root.Run(ctx, args)
	if err == nil {
		return ExitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}

	fmt.Fprintf(stderr, "%s: %v\n", name, err)
	return ExitError
}
