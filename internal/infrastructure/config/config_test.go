package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.Backend.DispatchWorkers)
	assert.Equal(t, "rashad", cfg.Mongo.Database)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":              "production",
		"JWT_SECRET":       "s3cret",
		"TOKEN_TTL":        "2h",
		"DISPATCH_WORKERS": "2",
		"COOKIE_SECURE":    "true",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 2, cfg.Backend.DispatchWorkers)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoadFrom_ProductionNeedsSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	assert.Error(t, err)
}
