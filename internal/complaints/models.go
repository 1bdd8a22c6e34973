package complaints

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrComplaintNotFound = errors.New("complaint not found")
)

// Channel is where a complaint was received.
type Channel string

const (
	ChannelLine     Channel = "line"
	ChannelFacebook Channel = "facebook"
	ChannelPhone    Channel = "phone"
	ChannelCounter  Channel = "counter"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelLine, ChannelFacebook, ChannelPhone, ChannelCounter:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusVerified   Status = "verified"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusVerified, StatusRejected},
	StatusVerified:   {StatusResolved},
}

// CanTransition reports whether a complaint in status from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Complaint struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Channel         Channel        `gorm:"size:16;not null;index" json:"channel"`
	Category        string         `json:"category"`
	Detail          string         `gorm:"type:text" json:"detail"`
	ReporterName    string         `json:"reporter_name"`
	ReporterContact string         `json:"reporter_contact"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	ZoneID          *uuid.UUID     `gorm:"type:uuid;index" json:"zone_id"`
	Status          Status         `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ImageURLs       pq.StringArray `gorm:"type:text[]" json:"image_urls"`
	VerifiedAt      *time.Time     `json:"verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Complaint) TableName() string {
	return "complaints.complaints"
}

// Point returns the reported location, or false when either coordinate is
// missing.
func (c Complaint) Point() (zones.Point, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return zones.Point{}, false
	}
	return zones.Point{Lat: *c.Latitude, Lng: *c.Longitude}, true
}
