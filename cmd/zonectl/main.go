// Package main is zonectl, a command line client for governance zones on a
// metadata server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/cli"

	"github.com/jsamuelsen/metadata-access-client/internal/platform/config"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/logging"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
var (
	// Version is the semantic version of zonectl.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"
)

func main() {
	os.Exit(Main(os.Args))
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	if err := cfg.Validate(); err != nil {
		ui.Error(fmt.Sprintf("invalid config: %v", err))
		return 1
	}

	// Output belongs to stdout; logs go to stderr.
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "zonectl",
		Version: Version,
	}, os.Stderr)

	ctx := context.Background()

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  "zonectl",
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing telemetry: %v", err))
		return 1
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	meta := &Meta{UI: ui, Config: cfg, Logger: logger}

	exitCode, err := newCLI(meta, args[1:]).Run()
	if err != nil {
		ui.Error(fmt.Sprintf("error executing CLI: %v", err))
		return 1
	}

	return exitCode
}

// newCLI wires every subcommand to meta.
func newCLI(meta *Meta, args []string) *cli.CLI {
	if len(args) == 1 && (args[0] == "-version" || args[0] == "-v") {
		args = []string{"version"}
	}

	return &cli.CLI{
		Name:    "zonectl",
		Args:    args,
		Version: Version,
		Commands: map[string]cli.CommandFactory{
			"create": func() (cli.Command, error) { return &createCommand{Meta: meta}, nil },
			"update": func() (cli.Command, error) { return &updateCommand{Meta: meta}, nil },
			"status": func() (cli.Command, error) { return &statusCommand{Meta: meta}, nil },
			"delete": func() (cli.Command, error) { return &deleteCommand{Meta: meta}, nil },
			"get":    func() (cli.Command, error) { return &getCommand{Meta: meta}, nil },
			"find":   func() (cli.Command, error) { return &findCommand{Meta: meta}, nil },
			"list":   func() (cli.Command, error) { return &listCommand{Meta: meta}, nil },
			"version": func() (cli.Command, error) {
				return &versionCommand{Meta: meta}, nil
			},
		},
		HelpWriter: os.Stderr,
	}
}
