// Command zonectl maintains admin zones: import boundary files, test lookups
// and assign zones to complaints filed before their zone existed.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EmpoweredVote/EV-Complaints/internal/complaints"
	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// connect opens the database and migrates both modules. The returned func
// closes the pool.
func connect(ctx context.Context, cfg *config.Config) func() {
	if cfg.Database.URL == "" {
		logger.Fatal(ctx, "DATABASE_URL is required for this command")
	}
	if err := db.Connect(cfg.Database); err != nil {
		logger.Fatal(ctx, "could not connect to database", zap.Error(err))
	}
	if err := zones.Init(); err != nil {
		logger.Fatal(ctx, "could not init zones", zap.Error(err))
	}
	if err := complaints.Init(); err != nil {
		logger.Fatal(ctx, "could not init complaints", zap.Error(err))
	}

	return func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "could not close database", zap.Error(err))
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}
	logger.Setup(cfg.Environment)

	rootCmd := &cobra.Command{
		Use:          "zonectl",
		Short:        "Zone maintenance tools",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		importCommand(cfg),
		resolveCommand(cfg),
		backfillCommand(cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
