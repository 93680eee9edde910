package bench

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// DefaultWarmup is the number of leading entities replayed before timing.
const DefaultWarmup = 1000

// Phase is a step of a single trial.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWarmingUp
	PhaseResetting
	PhaseSettling
	PhaseTiming
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWarmingUp:
		return "warming-up"
	case PhaseResetting:
		return "resetting"
	case PhaseSettling:
		return "settling"
	case PhaseTiming:
		return "timing"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Trial is one named measurement. Dataset is materialized once; the warm-up
// replays its prefix and the timed loop walks all of it. Reset runs between
// the two and may be nil.
type Trial struct {
	Name    string
	Dataset func(ctx context.Context) ([]Employee, error)
	Action  func(ctx context.Context, e Employee) error
	Reset   func(ctx context.Context) error
}

// Runner executes trials one at a time.
type Runner struct {
	Warmup int
	Gen    *Generator
	Logger *slog.Logger

	// Settle runs right before the clock starts. Nil skips the step.
	Settle func()
	// OnPhase, when set, observes every phase transition.
	OnPhase func(trial string, p Phase)

	now func() time.Time
}

func NewRunner(gen *Generator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Warmup: DefaultWarmup,
		Gen:    gen,
		Logger: logger,
		Settle: runtime.GC,
		now:    time.Now,
	}
}

// RunTrial warms up, resets, settles and then times a full pass of t.Action
// over the dataset. The first error aborts the trial.
func (r *Runner) RunTrial(ctx context.Context, t Trial) (TrialResult, error) {
	r.enter(t.Name, PhaseIdle)

	data, err := t.Dataset(ctx)
	if err != nil {
		return TrialResult{}, fmt.Errorf("%s: dataset: %w", t.Name, err)
	}

	r.enter(t.Name, PhaseWarmingUp)
	warm := min(max(r.Warmup, 0), len(data))
	for i := 0; i < warm; i++ {
		if err := t.Action(ctx, data[i]); err != nil {
			return TrialResult{}, fmt.Errorf("%s: warmup row %d: %w", t.Name, i, err)
		}
	}

	r.enter(t.Name, PhaseResetting)
	if t.Reset != nil {
		if err := t.Reset(ctx); err != nil {
			return TrialResult{}, fmt.Errorf("%s: reset: %w", t.Name, err)
		}
	}

	r.enter(t.Name, PhaseSettling)
	if r.Settle != nil {
		r.Settle()
	}

	r.enter(t.Name, PhaseTiming)
	clock := r.now
	if clock == nil {
		clock = time.Now
	}
	processed := 0
	start := clock()
	for _, e := range data {
		if err := t.Action(ctx, e); err != nil {
			return TrialResult{}, fmt.Errorf("%s: row %d: %w", t.Name, processed, err)
		}
		processed++
	}
	elapsed := clock().Sub(start)

	r.enter(t.Name, PhaseDone)
	res := TrialResult{Name: t.Name, Iterations: processed, Elapsed: elapsed}
	r.log().Info("trial finished",
		slog.String("trial", res.Name),
		slog.Int("iterations", res.Iterations),
		slog.Duration("elapsed", res.Elapsed),
		slog.Int("warmup", warm),
	)
	return res, nil
}

func (r *Runner) enter(trial string, p Phase) {
	r.log().Debug("trial phase", slog.String("trial", trial), slog.String("phase", p.String()))
	if r.OnPhase != nil {
		r.OnPhase(trial, p)
	}
}

func (r *Runner) log() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
