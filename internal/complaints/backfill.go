package complaints

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 500

type BackfillOptions struct {
	PageSize int
	DryRun   bool
	// Channel limits the run to one intake channel when set.
	Channel Channel
}

type BackfillReport struct {
	Scanned   int `json:"scanned"`
	Assigned  int `json:"assigned"`
	Unmatched int `json:"unmatched"`
	Invalid   int `json:"invalid"`
}

// Backfill assigns a zone to every located complaint that has none, using zs
// in resolution order. On a store error or cancellation the report so far is
// returned with the error.
func Backfill(ctx context.Context, store Store, zs []zones.Zone, opts BackfillOptions) (BackfillReport, error) {
	var rep BackfillReport
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}

	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		page, err := store.ListUnzoned(ctx, after, opts.PageSize, opts.Channel)
		if err != nil {
			return rep, err
		}
		if len(page) == 0 {
			break
		}

		for _, c := range page {
			rep.Scanned++
			p, ok := c.Point()
			if !ok {
				rep.Invalid++
				continue
			}

			z, err := zones.Resolve(p, zs)
			if errors.Is(err, zones.ErrInvalidPoint) {
				rep.Invalid++
				logger.Debug(ctx, "complaint has unusable location",
					zap.String("complaint_id", c.ID.String()), zap.Error(err))
				continue
			}
			if err != nil {
				return rep, err
			}
			if z == nil {
				rep.Unmatched++
				continue
			}

			if !opts.DryRun {
				if err := store.SetZone(ctx, c.ID, z.ID); err != nil {
					return rep, fmt.Errorf("complaint %s: %w", c.ID, err)
				}
			}
			rep.Assigned++
		}

		after = page[len(page)-1].ID
		logger.Info(ctx, "backfill page done",
			zap.Int("scanned", rep.Scanned),
			zap.Int("assigned", rep.Assigned),
			zap.Bool("dry_run", opts.DryRun),
		)
		if len(page) < opts.PageSize {
			break
		}
	}

	return rep, nil
}
