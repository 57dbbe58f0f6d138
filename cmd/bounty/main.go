package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gittensor/bounty-go-node/cmd/bounty/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.Version,
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		panic(err)
	}
}
