package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/basket-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":              "",
		"PORT":                 "",
		"DATABASE_URL":         "",
		"REDIS_URL":            "",
		"CORS_ALLOWED_ORIGINS": "",
		"VAT_RATE":             "",
		"CATALOG_CACHE_TTL":    "",
		"RATE_LIMIT_WINDOW":    "",
		"RATE_LIMIT_MAX":       "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.RedisURL)
	require.Nil(t, cfg.CORSAllowedOrigins)
	require.True(t, cfg.VATRate.Equal(decimal.RequireFromString("0.20")))
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 120, cfg.RateLimitMax)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"CORS_ALLOWED_ORIGINS": "https://shop.example.com, https://admin.example.com",
		"VAT_RATE":             "0.175",
		"CATALOG_CACHE_TTL":    "30s",
		"RATE_LIMIT_WINDOW":    "10s",
		"RATE_LIMIT_MAX":       "25",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.VATRate.Equal(decimal.RequireFromString("0.175")))
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	require.Equal(t, 25, cfg.RateLimitMax)
}

func TestLoadRejectsNegativeVATRate(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"VAT_RATE": "-0.05"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "VAT_RATE")
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"VAT_RATE":          "",
		"CATALOG_CACHE_TTL": "not-a-duration",
		"RATE_LIMIT_MAX":    "not-a-number",
	})
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
}

func TestHTTPAddr(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"8080", ":8080"},
		{":9000", ":9000"},
		{"", ":8080"},
	}
	for _, tc := range cases {
		cfg := &config.Config{Port: tc.port}
		require.Equal(t, tc.want, cfg.HTTPAddr())
	}
}
