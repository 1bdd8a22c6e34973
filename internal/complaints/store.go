package complaints

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	Create(ctx context.Context, c *Complaint) error
	Get(ctx context.Context, id uuid.UUID) (*Complaint, error)
	// ListUnzoned returns complaints that have both coordinates but no zone,
	// ordered by ID and strictly after the given ID. An empty channel means
	// every channel.
	ListUnzoned(ctx context.Context, after uuid.UUID, limit int, channel Channel) ([]Complaint, error)
	SetZone(ctx context.Context, id, zoneID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{db: d}
}

func (s *GormStore) Create(ctx context.Context, c *Complaint) error {
	if c.Status == "" {
		c.Status = StatusPending
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create complaint: %w", db.Classify(err))
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	var c Complaint
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrComplaintNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get complaint %s: %w", id, err)
	}
	return &c, nil
}

func (s *GormStore) ListUnzoned(ctx context.Context, after uuid.UUID, limit int, channel Channel) ([]Complaint, error) {
	q := s.db.WithContext(ctx).
		Where("zone_id IS NULL AND latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("id > ?", after)
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}

	var out []Complaint
	if err := q.Order("id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list unzoned complaints: %w", err)
	}
	return out, nil
}

func (s *GormStore) SetZone(ctx context.Context, id, zoneID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&Complaint{}).
		Where("id = ?", id).
		Update("zone_id", zoneID)
	if res.Error != nil {
		return fmt.Errorf("set zone for complaint %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrComplaintNotFound, id)
	}
	return nil
}

// UpdateStatus moves a complaint along the triage order. The row is locked
// for the check so concurrent updates cannot skip a step.
func (s *GormStore) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Complaint
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrComplaintNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("load complaint %s: %w", id, err)
		}
		if !CanTransition(c.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
		}

		updates := map[string]any{"status": to, "updated_at": time.Now()}
		if to == StatusVerified {
			updates["verified_at"] = time.Now()
		}
		if err := tx.Model(&Complaint{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update complaint %s: %w", id, err)
		}
		return nil
	})
}
