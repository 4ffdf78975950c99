// main is the entry point for the bugcensus CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/bugcensus/cmd"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/internal/iostore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetStoreManager(iostore.Manager)
	defer iostore.CloseStores()

	err := cmd.Execute(ctx)
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iostore.CloseStores()
		contract.LogFatal("bugcensus failed", err)
	}
}
