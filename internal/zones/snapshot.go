package zones

import (
	"context"
	"sync"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"go.uber.org/zap"
)

// Snapshot serves the active zone list from memory and refreshes it from a
// Lister once the TTL has passed. A failed refresh keeps the last good list.
type Snapshot struct {
	lister Lister
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	zones    []Zone
	loadedAt time.Time
	loaded   bool
}

func NewSnapshot(l Lister, ttl time.Duration) *Snapshot {
	return &Snapshot{lister: l, ttl: ttl, now: time.Now}
}

// Zones returns the cached list, reloading it first when stale. Callers must
// treat the slice as read-only.
func (s *Snapshot) Zones(ctx context.Context) ([]Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.now().Sub(s.loadedAt) < s.ttl {
		return s.zones, nil
	}

	start := time.Now()
	// A caller hanging up must not fail the reload every caller is waiting on.
	zs, err := s.lister.ListActive(context.WithoutCancel(ctx))
	snapshotReloadSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		if !s.loaded {
			return nil, err
		}
		logger.Warn(ctx, "zone snapshot reload failed, serving stale zones",
			zap.Error(err),
			zap.Time("loaded_at", s.loadedAt),
			zap.Int("zones", len(s.zones)),
		)
		// Retry on the next TTL tick instead of on every request.
		s.loadedAt = s.now()
		return s.zones, nil
	}

	s.zones = zs
	s.loadedAt = s.now()
	s.loaded = true
	logger.Debug(ctx, "zone snapshot loaded", zap.Int("zones", len(zs)))
	return s.zones, nil
}

// Invalidate forces the next Zones call to reload.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}
