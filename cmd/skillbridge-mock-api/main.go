// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Skillbridge-mock-api serves the marketplace API from memory for local
// development. Accounts and messages are lost when it exits.
//
//	skillbridge-mock-api --listen localhost:4000 --demo
//	SKILLBRIDGE_API_BASE_URL=http://localhost:4000 skillbridge login demo.ana@example.com
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/skillbridge/skillbridge/lib/mockapi"
	"github.com/skillbridge/skillbridge/lib/process"
	"github.com/skillbridge/skillbridge/lib/version"
)

// demoPassword is the password of every --demo account.
const demoPassword = "demo-pass1!"

func main() {
	if err := run(); err != nil {
		process.Exit(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("skillbridge-mock-api", pflag.ContinueOnError)
	listen := flags.String("listen", "localhost:4000", "address to serve on")
	demo := flags.Bool("demo", false, "create demo accounts and a sample conversation")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn or error")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Printf("skillbridge-mock-api %s\n", version.Full())
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mockapi.New(mockapi.Config{Logger: logger})
	if *demo {
		if err := seedDemo(server); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		logger.Info("demo accounts created", "password", demoPassword,
			"emails", []string{"demo.ana@example.com", "demo.ben@example.com", "demo.cara@example.com"})
	}

	listener, err := net.Listen("tcp", *listen)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- httpServer.Serve(listener)
	}()
	logger.Info("mock marketplace API running", "address", listener.Addr().String(), "version", version.Info())

	select {
	case err := <-serveDone:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveDone; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func seedDemo(server *mockapi.Server) error {
	seeds := []mockapi.Seed{
		{FirstName: "Ana", LastName: "Silva", EmailID: "demo.ana@example.com", Category: "UI/UX Designer", Summary: "Design systems, user research and Figma prototypes."},
		{FirstName: "Ben", LastName: "Okafor", EmailID: "demo.ben@example.com", Category: "Frontend Engineer", Summary: "React and TypeScript, accessibility first."},
		{FirstName: "Cara", LastName: "Lind", EmailID: "demo.cara@example.com", Category: "Backend Engineer", Summary: "Go services, Postgres and data pipelines."},
	}
	users := make([]string, len(seeds))
	for index, seed := range seeds {
		seed.Password = demoPassword
		user, err := server.SeedUser(seed)
		if err != nil {
			return err
		}
		users[index] = user.ID
	}

	conversation := []struct {
		from, to int
		content  string
	}{
		{1, 0, "Hi Ana, are you taking on new projects this month?"},
		{0, 1, "Hi Ben! I have some time from next week. What do you have in mind?"},
		{2, 0, "Loved your portfolio. Could we talk about a dashboard redesign?"},
	}
	for _, message := range conversation {
		if _, err := server.SeedMessage(users[message.from], users[message.to], message.content); err != nil {
			return err
		}
	}
	return nil
}
