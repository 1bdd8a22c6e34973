package main

import (
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/complaints"
	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func backfillCommand(cfg *config.Config) *cobra.Command {
	var (
		opts    complaints.BackfillOptions
		channel string
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Assigns zones to located complaints that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if channel != "" {
				ch, err := complaints.ParseChannel(channel)
				if err != nil {
					return err
				}
				opts.Channel = ch
			}

			closeDB := connect(ctx, cfg)
			defer closeDB()

			zs, err := zones.NewGormStore(db.DB).ListActive(ctx)
			if err != nil {
				return err
			}
			if len(zs) == 0 {
				logger.Warn(ctx, "no active zones; every complaint will be unmatched")
			}

			rep, err := complaints.Backfill(ctx, complaints.NewGormStore(db.DB), zs, opts)
			out := cmd.OutOrStdout()
			if opts.DryRun {
				fmt.Fprintln(out, "Mode: DRY RUN (no database writes)")
			}
			fmt.Fprintf(out, "scanned=%d assigned=%d unmatched=%d invalid=%d\n",
				rep.Scanned, rep.Assigned, rep.Unmatched, rep.Invalid)
			if err != nil {
				logger.Error(ctx, "backfill stopped early", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "resolve without writing zone_id")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 500, "complaints per page")
	cmd.Flags().StringVar(&channel, "channel", "", "only backfill one channel (line, facebook, phone, counter)")
	return cmd
}
