package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/sessions/app/sessions/config"
	"github.com/jrazmi/sessions/app/tooling/commands"
	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/jrazmi/sessions/sdk/logger"
)

var build = "develop"
var appName = "SESSIONS"

func processCommands(ctx context.Context, cfg *config.Sessions, command string, args []string) error {
	repo := cfg.Repositories.Sessions
	out := os.Stdout

	switch command {
	case "bootstrap":
		return commands.Bootstrap(ctx, out, cfg, args)
	case "status":
		return commands.Status(ctx, out, cfg, args)
	case "issue":
		return commands.Issue(ctx, out, repo, args)
	case "show":
		return commands.Show(ctx, out, repo, args)
	case "touch":
		return commands.Touch(ctx, out, repo, args)
	case "list":
		return commands.List(ctx, out, repo, args)
	case "revoke":
		return commands.Revoke(ctx, out, repo, args)
	case "revoke-user":
		return commands.RevokeUser(ctx, out, repo, args)
	default:
		printHelp()
		return nil
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  bootstrap               - create the session table in the configured store")
	fmt.Println("  status                  - check every configured datastore")
	fmt.Println("  issue <user_id>         - start a session for a user")
	fmt.Println("  show <id>               - print a session")
	fmt.Println("  touch <id>              - record activity on a session")
	fmt.Println("  list [flags]            - list sessions, newest first")
	fmt.Println("  revoke <id>             - end a session")
	fmt.Println("  revoke-user <user_id>   - end every session of a user")
	fmt.Println()
	fmt.Println("Use 'go run app/tooling/main.go <command> -h' for command-specific help.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// Show help and exit early if requested
	if command == "" || command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	// DATA INFRASTRUCTURE
	// ==============================================================================
	cfg, err := config.Open(ctx, appName, build, log)
	if err != nil {
		return err
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing datastores")
		cfg.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		var args []string
		if len(os.Args) > 2 {
			args = os.Args[2:]
		}
		done <- processCommands(ctx, cfg, command, args)
	}()

	select {
	case err := <-done:
		if errors.Is(err, commands.ErrHelp) {
			return nil
		}
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		cancel()

		// Give the command a short time to observe cancellation.
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return fmt.Errorf("shutdown timeout: command did not stop")
		}
	}
}

func main() {
	environment.LoadEnv()

	log, err := logger.NewFromEnv(appName, logger.WithOutput(os.Stderr))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}
