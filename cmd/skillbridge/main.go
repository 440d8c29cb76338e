// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Command skillbridge is the terminal client for the SkillBridge
// marketplace.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/cmd/skillbridge/commands"
	"github.com/skillbridge/skillbridge/lib/config"
	"github.com/skillbridge/skillbridge/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Exit(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configuration, err := config.Load("")
	if err != nil {
		return cli.Validation("%w", err)
	}
	if err := configuration.Validate(); err != nil {
		return cli.Validation("invalid configuration: %w", err)
	}
	level, _ := configuration.SlogLevel()
	logger := cli.NewCommandLogger(level)

	app := &cli.App{
		Config: configuration,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
	defer app.Close()

	return commands.Root(app).Execute(ctx, os.Args[1:], logger)
}
