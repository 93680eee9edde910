package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, DefaultWarmup, cfg.Warmup)
	assert.Equal(t, "employees", cfg.Table)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errIs  error
	}{
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, ErrUnknownDriver},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, ErrInvalidCount},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, nil},
		{"empty table", func(c *Config) { c.Table = "" }, nil},
		{"bad output", func(c *Config) { c.Output = "xml" }, nil},
		{"postgres without target", func(c *Config) { c.Driver = DriverPostgres }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Driver = DriverPostgres
	cfg.DSN = "postgres://localhost/bench"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := `
driver: mysql
table: staff
iterations: 500
warmup: 50
seed: 9
conn:
  host: db.local
  port: 3307
  user: bench
  database: payroll
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.Driver)
	assert.Equal(t, "staff", cfg.Table)
	assert.Equal(t, 500, cfg.Iterations)
	assert.Equal(t, 50, cfg.Warmup)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, "db.local", cfg.Conn.Host)
	assert.Equal(t, 3307, cfg.Conn.Port)
	assert.Equal(t, OutputTable, cfg.Output, "unset keys keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"driver":"memory","iterations":5,"wait":false}`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, 5, cfg.Iterations)
	assert.False(t, cfg.Wait)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("driver = 'x'"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "unsupported config file format")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BINDBENCH_DRIVER", "postgres")
	t.Setenv("BINDBENCH_DSN", "postgres://u:p@h/db")
	t.Setenv("BINDBENCH_ITERATIONS", "42")
	t.Setenv("BINDBENCH_SEED", "7")

	cfg := DefaultConfig()
	require.NoError(t, LoadFromEnv(cfg))
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DSN)
	assert.Equal(t, 42, cfg.Iterations)
	assert.Equal(t, uint64(7), cfg.Seed)

	t.Setenv("BINDBENCH_WARMUP", "lots")
	assert.ErrorContains(t, LoadFromEnv(cfg), "BINDBENCH_WARMUP")
}
