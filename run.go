package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"bindbench/bench"
	"bindbench/lite"
	"bindbench/mem"
	"bindbench/my"
	"bindbench/pg"

	"github.com/google/uuid"
)

// dsnFor returns cfg.DSN untouched, or builds one from cfg.Conn.
func dsnFor(cfg *bench.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	switch cfg.Driver {
	case bench.DriverPostgres:
		return pg.DSN(cfg.Conn, cfg.Conn.TLS)
	case bench.DriverMySQL:
		return my.DSN(cfg.Conn)
	case bench.DriverSQLite:
		return lite.DSN(cfg.Conn)
	}
	return ""
}

func openStore(ctx context.Context, cfg *bench.Config) (bench.Store, error) {
	dsn := dsnFor(cfg)
	switch cfg.Driver {
	case bench.DriverPostgres:
		return pg.Open(ctx, dsn, cfg.Table)
	case bench.DriverMySQL:
		return my.Open(ctx, dsn, cfg.Table)
	case bench.DriverSQLite:
		return lite.Open(ctx, dsn, cfg.Table)
	case bench.DriverMemory:
		return mem.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", bench.ErrUnknownDriver, cfg.Driver)
}

type opener func(ctx context.Context, cfg *bench.Config) (bench.Store, error)

func run(ctx context.Context, logger *slog.Logger, cfg *bench.Config, stdout io.Writer, stdin io.Reader) error {
	return runWith(ctx, logger, cfg, openStore, stdout, stdin)
}

func runWith(ctx context.Context, logger *slog.Logger, cfg *bench.Config, open opener, stdout io.Writer, stdin io.Reader) error {
	report := bench.Report{
		RunID:      uuid.NewString(),
		Driver:     cfg.Driver,
		Iterations: cfg.Iterations,
		Warmup:     cfg.Warmup,
		StartedAt:  time.Now().UTC(),
	}

	// Progress and tables share stdout unless JSON owns it.
	out := stdout
	if cfg.Output == bench.OutputJSON {
		out = os.Stderr
	}

	fmt.Fprintln(out, "═══════════════════════════════════════════")
	fmt.Fprintf(out, "  Parameter Binding Benchmark (%s)\n", cfg.Driver)
	fmt.Fprintln(out, "═══════════════════════════════════════════")
	fmt.Fprintf(out, "  Iterations: %d | Warmup: %d | Trials: %s\n", cfg.Iterations, cfg.Warmup, strings.Join(bench.SuiteOrder, ", "))
	fmt.Fprintf(out, "  Run: %s\n\n", report.RunID)

	logger.Info("starting benchmark",
		slog.String("run_id", report.RunID),
		slog.String("driver", cfg.Driver),
		slog.String("table", cfg.Table),
		slog.Int("iterations", cfg.Iterations),
		slog.Int("warmup", cfg.Warmup),
		slog.Uint64("seed", cfg.Seed),
	)

	fmt.Fprintln(out, "[1/4] Connecting...")
	store, err := open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(out, "  ✗ Connection failed: %v\n", err)
		return err
	}
	defer store.Close()
	fmt.Fprintln(out, "  ✓ Connected")

	fmt.Fprintf(out, "\n[2/4] Creating table %s...\n", cfg.Table)
	if err := store.CreateTable(ctx); err != nil {
		fmt.Fprintf(out, "  ✗ Create failed: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "  ✓ Table ready")

	// An aborted or interrupted run still removes its table.
	dropped := false
	defer func() {
		if dropped {
			return
		}
		if err := store.DropTable(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("drop after aborted run failed",
				slog.String("table", cfg.Table),
				slog.Any("error", err),
			)
		}
	}()

	fmt.Fprintln(out, "\n[3/4] Running trials...")
	runner := bench.NewRunner(bench.NewGenerator(cfg.Seed), logger)
	runner.Warmup = cfg.Warmup

	table := bench.Format(nil)
	fmt.Fprint(out, indent(table))
	for res, err := range runner.Suite(ctx, store, cfg.Iterations) {
		if err != nil {
			fmt.Fprintf(out, "  ✗ Trial failed: %v\n", err)
			return err
		}
		report.Results = append(report.Results, res)
		fmt.Fprintf(out, "  %s\n", bench.FormatRow(res))
	}

	fmt.Fprintln(out, "\n[4/4] Dropping table...")
	dropped = true
	if err := store.DropTable(ctx); err != nil {
		fmt.Fprintf(out, "  ✗ Drop failed: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "  ✓ Dropped")

	switch cfg.Output {
	case bench.OutputJSON:
		if err := bench.WriteJSON(stdout, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	default:
		for _, c := range bench.Pairs(report.Results) {
			bench.PrintComparison(stdout, c)
		}
	}

	if cfg.Wait {
		fmt.Fprint(out, "\nPress Enter to exit...")
		bufio.NewReader(stdin).ReadString('\n')
	}
	return nil
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(l)
	}
	return b.String()
}
