// Package main is the entry point for the gitask CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/gitask/internal/app"
	"github.com/runoshun/gitask/internal/cli"
	"github.com/runoshun/gitask/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	debug := cli.HasDebugFlag(os.Args[1:])
	if err := run(debug); err != nil {
		cli.PrintError(os.Stderr, err, debug)
		os.Exit(1)
	}
}

func run(debug bool) error {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	ctx := context.Background()

	// Create dependency injection container
	container, err := app.New(ctx, app.Options{
		Dir:    cwd,
		Debug:  debug,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		// configure, config, help and completion work without a usable config;
		// workflow commands report the error when they run
		if !errors.Is(err, domain.ErrConfiguration) {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		container = app.NewConfigOnly(err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}
