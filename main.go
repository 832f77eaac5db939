package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nvv/ebh-import/cmd/batch"
	"nvv/ebh-import/cmd/categorize"
	"nvv/ebh-import/cmd/parties"
	"nvv/ebh-import/cmd/party"
	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/cmd/rules"
	"nvv/ebh-import/internal/config"
	"nvv/ebh-import/internal/logging"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv(nil)

	// 2. Set the process-wide level before any logger is created
	if level := config.GetEnv("LOG_LEVEL", ""); level != "" {
		logging.SetGlobalLevel(level)
	}

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(party.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(parties.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
