// Package app wires configuration, logging, observability, the register
// client and the workers into the brreg-lookup command.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"brreg-lookup/internal/common/config"
	"brreg-lookup/internal/common/errors"

	"github.com/urfave/cli/v2"
)

const Version = "2.0.0"

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewCLI(stdout, stderr).RunContext(ctx, args)
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "\n⚠️  Operation cancelled by user")
		return errors.ExitInterrupted
	}
	if err == nil {
		return errors.ExitOK
	}

	var exitErr cli.ExitCoder
	if stderrors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}

	// flag parsing and other usage errors from the cli package
	fmt.Fprintf(stderr, "❌ Error: %v\n", err)
	return errors.ExitUsage
}

// NewCLI builds the command. Results go to stdout, logs to the configured
// log output (stderr by default).
func NewCLI(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "brreg-lookup",
		Usage:     "Look up organizations in the Norwegian Business Register (Brønnøysundregisteret)",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		UsageText: `brreg-lookup --number 923609016
brreg-lookup --name "FJORDKRAFT AS AVD SORTLAND"
brreg-lookup --name "EQUINOR ASA" --output json`,
		Description: "Searches both main entities (enheter) and sub-entities (underenheter).\n" +
			"Name searches are ranked by relevance, exact matches first.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "number",
				Aliases: []string{"num"},
				Usage:   "9-digit organization number for direct lookup",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Organization name to search for (minimum 3 characters)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"BRREG_LOOKUP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (text, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (console, json)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Override the register API base URL",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to this file on exit",
			},
		},
		Action:         lookupAction(stdout),
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
	if c.IsSet("base-url") {
		cfg.BRREG.BaseURL = c.String("base-url")
	}
	if c.IsSet("metrics-file") {
		cfg.Observability.MetricsFile = c.String("metrics-file")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
