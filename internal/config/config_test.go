package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/petrijr/workthread/pkg/worker"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "worker.yaml", `
worker:
  name: ingest
  delay: 50ms
  timeout: 30s
queue:
  backend: sqlite
  wait: 100ms
  sqlite_path: tasks.db
log:
  level: debug
  format: json
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	wc, err := cfg.WorkerConfig()
	require.NoError(t, err)
	require.Equal(t, "ingest", wc.Name)
	require.Equal(t, 50*time.Millisecond, wc.Delay)
	require.Equal(t, 30*time.Second, wc.Timeout)

	wait, err := cfg.QueueWait()
	require.NoError(t, err)
	require.Equal(t, 100*time.Millisecond, wait)
	require.Equal(t, BackendSQLite, cfg.Queue.Backend)
	require.Equal(t, "tasks.db", cfg.Queue.SQLitePath)
	require.Equal(t, 1024, cfg.Queue.Capacity, "unset fields keep defaults")
	require.NotNil(t, cfg.Logger())
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "worker.json", `{
  "worker": {"timeout": "2s"},
  "queue": {"backend": "redis", "redis_addr": "localhost:6379"}
}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	wc, err := cfg.WorkerConfig()
	require.NoError(t, err)
	require.Equal(t, worker.DefaultDelay, wc.Delay)
	require.Equal(t, 2*time.Second, wc.Timeout)
	require.Equal(t, "localhost:6379", cfg.Queue.RedisAddr)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	wc, err := cfg.WorkerConfig()
	require.NoError(t, err)
	require.Equal(t, worker.DefaultTimeout, wc.Timeout)
}

func TestLoadFileErrors(t *testing.T) {
	cases := map[string]string{
		"negative delay":     "worker:\n  delay: -1s\n",
		"negative timeout":   "worker:\n  timeout: -1s\n",
		"bad duration":       "worker:\n  delay: soon\n",
		"unknown backend":    "queue:\n  backend: kafka\n",
		"redis without addr": "queue:\n  backend: redis\n",
		"negative wait":      "queue:\n  wait: -5ms\n",
		"bad log level":      "log:\n  level: loud\n",
		"bad log format":     "log:\n  format: xml\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, "c.yaml", content))
			require.Error(t, err)
		})
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	_, err := LoadFile(writeFile(t, "c.toml", "x = 1"))
	require.ErrorContains(t, err, "unsupported config format")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}
