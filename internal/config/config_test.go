package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leads.db", cfg.Store.Path)
	assert.Equal(t, "https://api.company-information.service.gov.uk", cfg.CompaniesHouse.BaseURL)
	assert.InDelta(t, 2.0, cfg.CompaniesHouse.RateLimit, 0.001)
	assert.Equal(t, "https://api.postcodes.io", cfg.Geo.BaseURL)
	assert.Equal(t, 1024, cfg.Geo.CacheSize)
	assert.Equal(t, 30, cfg.Crawl.TimeoutSecs)
	assert.True(t, cfg.Sources.Whois)
	assert.False(t, cfg.Sources.Dorking)
	assert.Equal(t, 5, cfg.Batch.Concurrency)
	assert.Equal(t, 2, cfg.Batch.BatchDelaySecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  concurrency: 10
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Crawl.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADGEN_STORE_DRIVER", "postgres")
	t.Setenv("LEADGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LEADGEN_COMPANIES_HOUSE_KEY", "ch-key")
	t.Setenv("LEADGEN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ch-key", cfg.CompaniesHouse.Key)
	assert.Equal(t, 3000, cfg.Server.Port)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = "leads.db"
	cfg.Batch.Concurrency = 5
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateEnrich_AllPresent(t *testing.T) {
	cfg := validDefaults()
	cfg.CompaniesHouse.Key = "ch-key"
	cfg.Search.Key = "search-key"

	assert.NoError(t, cfg.Validate("enrich"))
}

func TestValidateEnrich_MissingKeys(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "companies_house.key is required")
	assert.Contains(t, err.Error(), "search.key is required")
}

func TestValidateExport_NoKeysNeeded(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("export"))
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")

	cfg.Store.DatabaseURL = "postgres://localhost/leads"
	assert.NoError(t, cfg.Validate("export"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.CompaniesHouse.Key = "k"
	cfg.Search.Key = "k"
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.Concurrency = 0
	err := cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.concurrency must be between 1 and 50")

	cfg.Batch.Concurrency = 51
	assert.Error(t, cfg.Validate("export"))

	cfg.Batch.Concurrency = 50
	assert.NoError(t, cfg.Validate("export"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}
