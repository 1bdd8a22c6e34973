package zones

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Zone is an administrative area complaints are routed to.
type Zone struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Polygon   Polygon   `gorm:"type:jsonb;not null;default:'[]'" json:"polygon"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"` // resolution order, lowest first
	Active    bool      `gorm:"not null;index" json:"active"` // no gorm default: false must be written
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Zone) TableName() string {
	return "zones.zones"
}

// Coordinate is one polygon vertex in (latitude, longitude) order.
type Coordinate struct {
	Lat float64
	Lng float64
}

func (c Coordinate) finite() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) && !math.IsInf(c.Lat, 0) && !math.IsInf(c.Lng, 0)
}

// Polygon is a zone boundary stored as JSONB [[lat,lng],...]. The ring may or
// may not repeat its first vertex at the end.
type Polygon []Coordinate

func (p Polygon) Value() (driver.Value, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Polygon) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("polygon: unsupported type: %T", value)
	}
}

// MarshalJSON writes non-finite components as null so a bad vertex
// round-trips as bad instead of failing the whole row.
func (p Polygon) MarshalJSON() ([]byte, error) {
	out := make([][2]*float64, len(p))
	for i, c := range p {
		out[i] = [2]*float64{finiteOrNil(c.Lat), finiteOrNil(c.Lng)}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is lenient about individual vertices: numeric strings are
// parsed, anything else that is not a number becomes NaN. Such a polygon
// fails Valid and its zone is skipped during resolution.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("polygon: %w", err)
	}
	if raw == nil {
		*p = nil
		return nil
	}

	out := make(Polygon, 0, len(raw))
	for _, r := range raw {
		out = append(out, decodeCoordinate(r))
	}
	*p = out
	return nil
}

func decodeCoordinate(raw json.RawMessage) Coordinate {
	var pair []interface{}
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return Coordinate{Lat: math.NaN(), Lng: math.NaN()}
	}
	return Coordinate{Lat: toFloat(pair[0]), Lng: toFloat(pair[1])}
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func finiteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Point is a reported location in (latitude, longitude) order.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports ErrInvalidPoint for non-finite or out-of-range coordinates.
func (p Point) Validate() error {
	switch {
	case math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0):
		return fmt.Errorf("%w: non-numeric coordinate (lat=%v, lng=%v)", ErrInvalidPoint, p.Lat, p.Lng)
	case p.Lat < -90 || p.Lat > 90:
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidPoint, p.Lat)
	case p.Lng < -180 || p.Lng > 180:
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidPoint, p.Lng)
	}
	return nil
}
