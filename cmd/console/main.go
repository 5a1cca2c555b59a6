// Command console plays rock-paper-scissors in the terminal, either against
// the machine or as a batch of machine-against-machine matches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rps-game-system/config"
	"rps-game-system/console"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := console.ParseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.Run(ctx, cfg, opts, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
