package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config is shared by both binaries. Values come from defaults, then an
// optional YAML file, then the environment.
type Config struct {
	GRPCAddr        string        `yaml:"grpc_addr"`
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCTarget      string        `yaml:"grpc_target"`
	GRPCWaitTimeout time.Duration `yaml:"grpc_wait_timeout"`

	Backend    string `yaml:"backend"`
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`

	ToleranceDays int `yaml:"tolerance_days"`

	Log LogConfig `yaml:"log"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		GRPCAddr:           ":9090",
		HTTPAddr:           ":8080",
		GRPCTarget:         "127.0.0.1:9090",
		GRPCWaitTimeout:    20 * time.Second,
		Backend:            BackendCSV,
		CSVPath:            "readings.csv",
		SQLitePath:         "./data/readings.db",
		ToleranceDays:      3,
		Log:                LogConfig{Level: "info", Format: "text"},
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads path (if non-empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if err := c.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("GRPC_ADDR", &c.GRPCAddr)
	setString("HTTP_ADDR", &c.HTTPAddr)
	setString("GRPC_TARGET", &c.GRPCTarget)
	setString("READINGS_BACKEND", &c.Backend)
	setString("CSV_PATH", &c.CSVPath)
	setString("SQLITE_PATH", &c.SQLitePath)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	if v := getenv("GRPC_WAIT_TIMEOUT_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRPC_WAIT_TIMEOUT_MS: %w", err)
		}
		c.GRPCWaitTimeout = time.Duration(n) * time.Millisecond
	}
	if v := getenv("TOLERANCE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOLERANCE_DAYS: %w", err)
		}
		c.ToleranceDays = n
	}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSAllowedOrigins = origins
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc_addr must not be empty"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}
	switch c.Backend {
	case BackendCSV:
		if c.CSVPath == "" {
			errs = append(errs, errors.New("csv_path is required for the csv backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend %q: must be %q or %q", c.Backend, BackendCSV, BackendSQLite))
	}
	if c.ToleranceDays < 0 {
		errs = append(errs, fmt.Errorf("tolerance_days must be >= 0, got %d", c.ToleranceDays))
	}
	if c.GRPCWaitTimeout < 0 {
		errs = append(errs, fmt.Errorf("grpc_wait_timeout must be >= 0, got %s", c.GRPCWaitTimeout))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
