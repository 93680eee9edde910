// Package main is the bindbench CLI: it times simple versus typed parameter
// binding for row inserts and updates against a relational store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bindbench/bench"

	"github.com/spf13/cobra"
)

func main() {
	// Interrupts cancel the run so deferred cleanup still drops the table and
	// closes the connection.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		flagCfg    = bench.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "bindbench",
		Short: "Compare simple and typed parameter binding throughput",
		Long: `bindbench inserts and then updates the same synthetic employee rows
twice, once binding native values and once binding explicitly typed and sized
parameters, and reports the wall-clock time of each pass.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, configPath, flagCfg)
			if err != nil {
				logger.Error("invalid configuration", slog.Any("error", err))
				return err
			}

			if err := run(cmd.Context(), logger, cfg, cmd.OutOrStdout(), cmd.InOrStdin()); err != nil {
				logger.Error("benchmark aborted", slog.Any("error", err))
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to a YAML or JSON config file")
	flags.StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	flags.StringVar(&flagCfg.Driver, "driver", flagCfg.Driver,
		"Store driver: postgres, mysql, sqlite, memory")
	flags.StringVar(&flagCfg.DSN, "dsn", "",
		"Connection string, passed to the driver as-is")
	flags.StringVar(&flagCfg.Conn.Host, "host", "",
		"Database host (used when --dsn is empty)")
	flags.IntVar(&flagCfg.Conn.Port, "port", 0,
		"Database port (default: driver's standard port)")
	flags.StringVar(&flagCfg.Conn.User, "user", "",
		"Database user")
	flags.StringVar(&flagCfg.Conn.Password, "password", "",
		"Database password")
	flags.StringVar(&flagCfg.Conn.Database, "database", "",
		"Database name (sqlite: file path)")
	flags.StringVar(&flagCfg.Conn.TLS, "tls", "",
		"TLS mode (postgres: sslmode, mysql: true, skip-verify, preferred)")
	flags.StringVar(&flagCfg.Table, "table", flagCfg.Table,
		"Benchmark table name")
	flags.IntVar(&flagCfg.Iterations, "iterations", flagCfg.Iterations,
		"Rows timed per trial")
	flags.IntVar(&flagCfg.Warmup, "warmup", flagCfg.Warmup,
		"Leading rows replayed before timing")
	flags.Uint64Var(&flagCfg.Seed, "seed", 0,
		"Random seed for generated names (0 = random)")
	flags.StringVar(&flagCfg.Output, "output", flagCfg.Output,
		"Report format: table, json")
	flags.BoolVar(&flagCfg.Wait, "wait", flagCfg.Wait,
		"Wait for Enter before exiting")

	return cmd
}

// loadConfig layers defaults, the config file, BINDBENCH_* variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, path string, flagCfg *bench.Config) (*bench.Config, error) {
	cfg := bench.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = bench.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := bench.LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("driver", func() { cfg.Driver = flagCfg.Driver })
	set("dsn", func() { cfg.DSN = flagCfg.DSN })
	set("host", func() { cfg.Conn.Host = flagCfg.Conn.Host })
	set("port", func() { cfg.Conn.Port = flagCfg.Conn.Port })
	set("user", func() { cfg.Conn.User = flagCfg.Conn.User })
	set("password", func() { cfg.Conn.Password = flagCfg.Conn.Password })
	set("database", func() { cfg.Conn.Database = flagCfg.Conn.Database })
	set("tls", func() { cfg.Conn.TLS = flagCfg.Conn.TLS })
	set("table", func() { cfg.Table = flagCfg.Table })
	set("iterations", func() { cfg.Iterations = flagCfg.Iterations })
	set("warmup", func() { cfg.Warmup = flagCfg.Warmup })
	set("seed", func() { cfg.Seed = flagCfg.Seed })
	set("output", func() { cfg.Output = flagCfg.Output })
	set("wait", func() { cfg.Wait = flagCfg.Wait })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}
