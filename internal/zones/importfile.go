package zones

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var ErrUnsupportedFormat = errors.New("unsupported zone file format")

// ZoneID derives a stable ID so re-importing the same code updates in place.
func ZoneID(ns uuid.UUID, code string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte("zone:"+code))
}

// CanonicalCode normalises a zone code: NFKC, case folded, inner whitespace
// collapsed to "-".
func CanonicalCode(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), "-")
}

// ParseFile reads a zone file by extension: .geojson/.json or .yaml/.yml.
func ParseFile(path string, ns uuid.UUID) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return ParseGeoJSON(data, ns)
	case ".yaml", ".yml":
		return ParseYAML(data, ns)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseGeoJSON reads a FeatureCollection of Polygon or MultiPolygon features.
// Only outer rings are kept; for a MultiPolygon the largest part wins.
func ParseGeoJSON(data []byte, ns uuid.UUID) ([]Zone, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	zs := make([]Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		code := propString(f.Properties, "code", "id")
		if code == "" && f.ID != nil {
			code = fmt.Sprint(f.ID)
		}
		label := featureLabel(i, code)

		var ring orb.Ring
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if len(g) == 0 {
				return nil, fmt.Errorf("%s: empty polygon", label)
			}
			ring = g[0]
		case orb.MultiPolygon:
			poly, ok := largest(g)
			if !ok {
				return nil, fmt.Errorf("%s: empty multipolygon", label)
			}
			if len(g) > 1 {
				logger.L().Info("multipolygon zone reduced to its largest part",
					zap.String("feature", label), zap.Int("parts", len(g)))
			}
			ring = poly[0]
		default:
			return nil, fmt.Errorf("%s: unsupported geometry %T", label, f.Geometry)
		}

		polygon := make(Polygon, len(ring))
		for j, pt := range ring {
			polygon[j] = Coordinate{Lat: pt.Lat(), Lng: pt.Lon()}
		}

		zs = append(zs, Zone{
			Code:      code,
			Name:      propString(f.Properties, "name", "name_th", "name_en"),
			Polygon:   polygon,
			SortOrder: propInt(f.Properties, "sort_order"),
			Active:    true,
		})
	}

	return finalize(zs, ns)
}

type zoneSheet struct {
	Zones []struct {
		Code      string      `yaml:"code"`
		Name      string      `yaml:"name"`
		SortOrder int         `yaml:"sort_order"`
		Active    *bool       `yaml:"active"`
		Polygon   [][]float64 `yaml:"polygon"`
	} `yaml:"zones"`
}

// ParseYAML reads a hand-maintained zone sheet whose polygons are written as
// [lat, lng] pairs.
func ParseYAML(data []byte, ns uuid.UUID) ([]Zone, error) {
	var sheet zoneSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	zs := make([]Zone, 0, len(sheet.Zones))
	for i, z := range sheet.Zones {
		polygon := make(Polygon, 0, len(z.Polygon))
		for j, pair := range z.Polygon {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%s: vertex %d has %d values, want [lat, lng]", featureLabel(i, z.Code), j, len(pair))
			}
			polygon = append(polygon, Coordinate{Lat: pair[0], Lng: pair[1]})
		}
		active := true
		if z.Active != nil {
			active = *z.Active
		}
		zs = append(zs, Zone{
			Code:      z.Code,
			Name:      z.Name,
			Polygon:   polygon,
			SortOrder: z.SortOrder,
			Active:    active,
		})
	}

	return finalize(zs, ns)
}

// finalize canonicalises codes, assigns IDs and rejects anything the resolver
// would silently skip. Imports are strict; reads are not.
func finalize(zs []Zone, ns uuid.UUID) ([]Zone, error) {
	seen := make(map[string]int, len(zs))
	for i := range zs {
		raw := zs[i].Code
		zs[i].Code = CanonicalCode(raw)
		label := featureLabel(i, raw)

		if zs[i].Code == "" {
			return nil, fmt.Errorf("%s: missing code", label)
		}
		if prev, dup := seen[zs[i].Code]; dup {
			return nil, fmt.Errorf("%s: duplicate code %q (also zone #%d)", label, zs[i].Code, prev+1)
		}
		seen[zs[i].Code] = i

		if !zs[i].Polygon.Valid() {
			return nil, fmt.Errorf("%s: polygon needs at least 3 distinct finite vertices and non-zero area", label)
		}
		if zs[i].Name == "" {
			zs[i].Name = raw
		}
		zs[i].ID = ZoneID(ns, zs[i].Code)
	}
	return zs, nil
}

func largest(mp orb.MultiPolygon) (orb.Polygon, bool) {
	var (
		best     orb.Polygon
		bestArea = -1.0
	)
	for _, p := range mp {
		if len(p) == 0 {
			continue
		}
		if a := math.Abs(planar.Area(p[0])); a > bestArea {
			best, bestArea = p, a
		}
	}
	return best, best != nil
}

func featureLabel(i int, code string) string {
	if code != "" {
		return fmt.Sprintf("zone #%d (%s)", i+1, code)
	}
	return fmt.Sprintf("zone #%d", i+1)
}

func propString(p geojson.Properties, keys ...string) string {
	for _, k := range keys {
		switch v := p[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func propInt(p geojson.Properties, key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}
