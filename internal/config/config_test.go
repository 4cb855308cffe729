package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, time.Second, cfg.Analysis.SplitDelay)
	assert.Equal(t, 2*time.Second, cfg.Analysis.AnalyzeDelay)
	assert.False(t, cfg.Minio.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  cors_origins: ["https://dash.example.com"]
log:
  level: debug
analysis:
  split_delay: 10ms
  analyze_delay: 0s
  max_concurrent: 4
store:
  driver: SQLite
  path: /tmp/x.db
database:
  host: db
  port: 5432
  user: u
  password: p
  name: insights
minio:
  enabled: true
  endpoint: minio:9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, 10*time.Millisecond, cfg.Analysis.SplitDelay)
	assert.Zero(t, cfg.Analysis.AnalyzeDelay)
	assert.Equal(t, 4, cfg.Analysis.MaxConcurrent)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.True(t, cfg.Minio.Enabled)
	assert.Equal(t, "insights-uploads", cfg.Minio.BucketName)

	assert.Equal(t, "u:p@tcp(db:5432)/insights?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=insights sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STORE_DRIVER", "postgres")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, ":7070", cfg.Addr())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  driver: redis\n"))
	assert.ErrorContains(t, err, "store.driver")

	_, err = Load(writeConfig(t, "analysis:\n  max_concurrent: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map]\n"))
	assert.Error(t, err)

	t.Setenv("PORT", "eighty")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "PORT")
}
