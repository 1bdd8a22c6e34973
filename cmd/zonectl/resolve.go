package main

import (
	"errors"
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/spf13/cobra"
)

func resolveCommand(cfg *config.Config) *cobra.Command {
	var (
		lat, lng float64
		file     string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Finds the zone containing a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var zs []zones.Zone
			if file != "" {
				ns, err := namespace(cmd, cfg)
				if err != nil {
					return err
				}
				parsed, err := zones.ParseFile(file, ns)
				if err != nil {
					return err
				}
				zs = zones.ActiveOrdered(parsed)
			} else {
				closeDB := connect(ctx, cfg)
				defer closeDB()

				var err error
				if zs, err = zones.NewGormStore(db.DB).ListActive(ctx); err != nil {
					return err
				}
			}

			p := zones.Point{Lat: lat, Lng: lng}
			out := cmd.OutOrStdout()
			if all {
				hits, err := zones.ResolveAll(p, zs)
				if err != nil {
					return err
				}
				if len(hits) == 0 {
					fmt.Fprintln(out, "no zone")
					return nil
				}
				for i, z := range hits {
					fmt.Fprintf(out, "%d\t%s\t%s\tsort=%d\n", i+1, z.Code, z.Name, z.SortOrder)
				}
				if len(hits) > 1 {
					fmt.Fprintf(out, "warning: %d zones overlap at this point, %s wins\n", len(hits), hits[0].Code)
				}
				return nil
			}

			z, err := zones.Resolve(p, zs)
			if err != nil {
				return err
			}
			if z == nil {
				fmt.Fprintln(out, "no zone")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", z.ID, z.Code, z.Name)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&file, "file", "", "resolve against a zone file instead of the database")
	cmd.Flags().BoolVar(&all, "all", false, "list every containing zone")
	cmd.Flags().String("namespace", "", "UUID namespace for zone IDs when reading --file")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := (zones.Point{Lat: lat, Lng: lng}).Validate(); err != nil {
			return errors.Join(errors.New("bad --lat/--lng"), err)
		}
		return nil
	}
	return cmd
}
