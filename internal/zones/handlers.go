package zones

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ZoneSource supplies the current zone list in resolution order. *Snapshot
// implements it.
type ZoneSource interface {
	Zones(ctx context.Context) ([]Zone, error)
}

type Handler struct {
	source ZoneSource
}

func NewHandler(src ZoneSource) *Handler {
	return &Handler{source: src}
}

// ZoneOut is the public shape of a zone. Polygon is only filled on request.
type ZoneOut struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Polygon   Polygon   `json:"polygon,omitempty"`
}

type ResolveResponse struct {
	Matched bool     `json:"matched"`
	Zone    *ZoneOut `json:"zone"`
}

func toZoneOut(z *Zone, withPolygon bool) ZoneOut {
	out := ZoneOut{
		ID:        z.ID,
		Code:      z.Code,
		Name:      z.Name,
		SortOrder: z.SortOrder,
	}
	if withPolygon {
		out.Polygon = z.Polygon
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// List handles GET /zones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	zs, err := h.source.Zones(r.Context())
	if err != nil {
		logger.Error(r.Context(), "load zones", zap.Error(err))
		http.Error(w, "Zones unavailable", http.StatusServiceUnavailable)
		return
	}

	withPolygon := strings.EqualFold(r.URL.Query().Get("include"), "polygon")
	out := make([]ZoneOut, 0, len(zs))
	for i := range zs {
		out = append(out, toZoneOut(&zs[i], withPolygon))
	}
	writeJSON(w, http.StatusOK, out)
}

// Resolve handles GET /zones/resolve?lat=..&lng=..
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	p, err := parsePoint(r)
	if err != nil {
		resolveTotal.WithLabelValues(resultInvalid).Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	zs, err := h.source.Zones(r.Context())
	if err != nil {
		logger.Error(r.Context(), "load zones", zap.Error(err))
		http.Error(w, "Zones unavailable", http.StatusServiceUnavailable)
		return
	}

	z, err := Resolve(p, zs)
	if errors.Is(err, ErrInvalidPoint) {
		resolveTotal.WithLabelValues(resultInvalid).Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if z == nil {
		resolveTotal.WithLabelValues(resultUnmatched).Inc()
		writeJSON(w, http.StatusOK, ResolveResponse{Matched: false})
		return
	}
	resolveTotal.WithLabelValues(resultMatched).Inc()
	out := toZoneOut(z, false)
	writeJSON(w, http.StatusOK, ResolveResponse{Matched: true, Zone: &out})
}

func parsePoint(r *http.Request) (Point, error) {
	q := r.URL.Query()
	lat, err := parseCoord(q.Get("lat"), "lat")
	if err != nil {
		return Point{}, err
	}
	lng, err := parseCoord(q.Get("lng"), "lng")
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lng: lng}, nil
}

func parseCoord(raw, name string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("missing " + name + " parameter")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return f, nil
}
