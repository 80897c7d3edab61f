package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	c, err := LoadWithEnv("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.GRPCAddr)
	assert.Equal(t, BackendCSV, c.Backend)
	assert.Equal(t, 3, c.ToleranceDays)
	assert.Equal(t, 20*time.Second, c.GRPCWaitTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
grpc_addr: ":7000"
backend: sqlite
sqlite_path: /tmp/r.db
tolerance_days: 5
grpc_wait_timeout: 3s
log:
  level: debug
  format: json
cors_allowed_origins: ["http://localhost:3000"]
`), 0o600))

	c, err := LoadWithEnv(path, envMap(map[string]string{
		"TOLERANCE_DAYS":       "2",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.GRPCAddr)
	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "/tmp/r.db", c.SQLitePath)
	assert.Equal(t, 2, c.ToleranceDays)
	assert.Equal(t, 3*time.Second, c.GRPCWaitTimeout)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
}

func TestLoad_InvalidEnvNumber(t *testing.T) {
	t.Parallel()

	_, err := LoadWithEnv("", envMap(map[string]string{"TOLERANCE_DAYS": "three"}))
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	c := Default()
	c.Backend = "mongo"
	c.ToleranceDays = -1
	c.Log.Format = "xml"

	err := c.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid backend")
	assert.Contains(t, msg, "tolerance_days")
	assert.Contains(t, msg, "log format")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	assert.Error(t, err)
}
