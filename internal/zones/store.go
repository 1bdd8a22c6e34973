package zones

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrZoneNotFound = errors.New("zone not found")

// Lister is all the resolver side needs from storage.
type Lister interface {
	// ListActive returns active zones in resolution order.
	ListActive(ctx context.Context) ([]Zone, error)
}

type Store interface {
	Lister
	Upsert(ctx context.Context, zs []Zone) error
	GetByCode(ctx context.Context, code string) (*Zone, error)
}

// GormStore keeps zones in Postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{db: d}
}

func (s *GormStore) ListActive(ctx context.Context) ([]Zone, error) {
	var zs []Zone
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, code ASC").
		Find(&zs).Error
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return zs, nil
}

func (s *GormStore) GetByCode(ctx context.Context, code string) (*Zone, error) {
	var z Zone
	err := s.db.WithContext(ctx).First(&z, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("get zone %s: %w", code, err)
	}
	return &z, nil
}

// Upsert writes zs in one transaction, replacing name, polygon, order and
// active flag of zones whose code already exists.
func (s *GormStore) Upsert(ctx context.Context, zs []Zone) error {
	if len(zs) == 0 {
		return nil
	}
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range zs {
			zs[i].UpdatedAt = now
			if err := upsertZone(tx, &zs[i]).Error; err != nil {
				return fmt.Errorf("upsert zone %q: %w", zs[i].Code, db.Classify(err))
			}
		}
		return nil
	})
}

func upsertZone(tx *gorm.DB, z *Zone) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "polygon", "sort_order", "active", "updated_at"}),
	}).Create(z)
}
