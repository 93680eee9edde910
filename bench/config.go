package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds everything a suite run needs.
type Config struct {
	// Driver selects the store: postgres, mysql, sqlite, memory
	Driver string `json:"driver" yaml:"driver"`

	// DSN is handed to the driver untouched. When empty it is built from Conn.
	DSN string `json:"dsn" yaml:"dsn"`

	Conn ConnConfig `json:"conn" yaml:"conn"`

	// Table is the benchmark table name
	Table string `json:"table" yaml:"table"`

	// Iterations is the number of rows each trial times
	Iterations int `json:"iterations" yaml:"iterations"`

	// Warmup is the number of leading rows replayed before timing
	Warmup int `json:"warmup" yaml:"warmup"`

	// Seed makes generated names reproducible (0 = random)
	Seed uint64 `json:"seed" yaml:"seed"`

	// Output is table or json
	Output string `json:"output" yaml:"output"`

	// Wait blocks for Enter before exiting
	Wait bool `json:"wait" yaml:"wait"`
}

func DefaultConfig() *Config {
	return &Config{
		Driver:     DriverSQLite,
		Table:      "employees",
		Iterations: 10000,
		Warmup:     DefaultWarmup,
		Output:     OutputTable,
		Wait:       true,
	}
}

// Validate checks the configuration before anything connects.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: %q (must be postgres, mysql, sqlite or memory)", ErrUnknownDriver, c.Driver)
	}

	if c.Iterations < 1 {
		return fmt.Errorf("iterations=%d: %w", c.Iterations, ErrInvalidCount)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", c.Warmup)
	}
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}

	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output: %s (must be table or json)", c.Output)
	}

	if c.DSN == "" && c.Driver != DriverMemory && c.Driver != DriverSQLite && c.Conn.Host == "" {
		return fmt.Errorf("%s needs either a dsn or conn.host", c.Driver)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv overrides cfg with BINDBENCH_* environment variables.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv("BINDBENCH_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("BINDBENCH_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("BINDBENCH_TABLE"); v != "" {
		cfg.Table = v
	}
	if v := os.Getenv("BINDBENCH_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINDBENCH_ITERATIONS: %w", err)
		}
		cfg.Iterations = n
	}
	if v := os.Getenv("BINDBENCH_WARMUP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINDBENCH_WARMUP: %w", err)
		}
		cfg.Warmup = n
	}
	if v := os.Getenv("BINDBENCH_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("BINDBENCH_SEED: %w", err)
		}
		cfg.Seed = n
	}
	return nil
}
