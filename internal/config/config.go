package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petrijr/workthread/pkg/worker"
	"gopkg.in/yaml.v3"
)

// Queue backends understood by QueueConfig.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// FileConfig is the layout of a workthread configuration file.
type FileConfig struct {
	Worker WorkerConfig `yaml:"worker" json:"worker"`
	Queue  QueueConfig  `yaml:"queue" json:"queue"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// WorkerConfig holds worker settings. Durations use time.ParseDuration syntax.
type WorkerConfig struct {
	Name    string `yaml:"name" json:"name"`
	Delay   string `yaml:"delay" json:"delay"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// QueueConfig selects and tunes the task queue backend.
type QueueConfig struct {
	Backend  string `yaml:"backend" json:"backend"`
	Wait     string `yaml:"wait" json:"wait"`
	Capacity int    `yaml:"capacity" json:"capacity"`

	SQLitePath  string `yaml:"sqlite_path" json:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr" json:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix" json:"redis_prefix"`
}

// LogConfig controls the slog handler built by Logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *FileConfig {
	return &FileConfig{
		Queue: QueueConfig{
			Backend:    BackendMemory,
			Capacity:   1024,
			SQLitePath: ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile reads a YAML or JSON configuration file on top of Default and
// validates it.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration.
func (f *FileConfig) Validate() error {
	if _, err := f.WorkerConfig(); err != nil {
		return err
	}
	if _, err := f.QueueWait(); err != nil {
		return err
	}

	switch f.Queue.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if f.Queue.RedisAddr == "" {
			return fmt.Errorf("queue.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown queue backend: %s", f.Queue.Backend)
	}

	if f.Queue.Capacity < 0 {
		return fmt.Errorf("queue.capacity must be non-negative")
	}

	if _, err := parseLevel(f.Log.Level); err != nil {
		return err
	}
	switch f.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", f.Log.Format)
	}
	return nil
}

// WorkerConfig converts the worker section into a worker.Config. Unset
// durations keep the worker defaults.
func (f *FileConfig) WorkerConfig() (worker.Config, error) {
	cfg := worker.DefaultConfig()
	cfg.Name = f.Worker.Name

	if f.Worker.Delay != "" {
		d, err := time.ParseDuration(f.Worker.Delay)
		if err != nil {
			return cfg, fmt.Errorf("invalid worker delay: %w", err)
		}
		if d < 0 {
			return cfg, fmt.Errorf("worker.delay must be non-negative")
		}
		cfg.Delay = d
	}
	if f.Worker.Timeout != "" {
		d, err := time.ParseDuration(f.Worker.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid worker timeout: %w", err)
		}
		if d < 0 {
			return cfg, fmt.Errorf("worker.timeout must be non-negative")
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// QueueWait returns how long a Dequeue waits before reporting an empty queue.
func (f *FileConfig) QueueWait() (time.Duration, error) {
	if f.Queue.Wait == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Queue.Wait)
	if err != nil {
		return 0, fmt.Errorf("invalid queue wait: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("queue.wait must be non-negative")
	}
	return d, nil
}

// Logger builds a slog.Logger writing to stderr.
func (f *FileConfig) Logger() *slog.Logger {
	level, err := parseLevel(f.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if f.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}
