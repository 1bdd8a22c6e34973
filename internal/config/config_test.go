package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/complaints")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5*time.Minute, cfg.ZoneCacheTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Database.SlowQuery)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/complaints")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://desk.example.go.th,https://admin.example.go.th")
	t.Setenv("RESOLVE_RATE_LIMIT", "2.5")
	t.Setenv("ZONE_CACHE_TTL", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, []string{"https://desk.example.go.th", "https://admin.example.go.th"}, cfg.CORSAllowedOrigins)
	assert.InDelta(t, 2.5, cfg.ResolveRateLimit, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.ZoneCacheTTL)
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Database:         config.Database{URL: "postgres://x"},
			ZoneIDNamespace:  "6f1c7d0e-4a53-5b8e-9a36-2f0d6c1b7e41",
			ResolveRateLimit: 1,
			ResolveRateBurst: 1,
		}
	}

	cfg := base()
	cfg.Database.URL = ""
	assert.ErrorIs(t, cfg.Validate(), config.ErrMissingDatabaseURL)

	cfg = base()
	cfg.ZoneIDNamespace = "not-a-uuid"
	assert.True(t, errors.Is(cfg.Validate(), config.ErrInvalidNamespace))

	cfg = base()
	cfg.ResolveRateBurst = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidRateLimit)

	cfg = base()
	require.NoError(t, cfg.Validate())
	ns, err := cfg.Namespace()
	require.NoError(t, err)
	assert.Equal(t, "6f1c7d0e-4a53-5b8e-9a36-2f0d6c1b7e41", ns.String())

	cfg.ZoneIDNamespace = "zone"
	_, err = cfg.Namespace()
	assert.ErrorIs(t, err, config.ErrInvalidNamespace)
}
