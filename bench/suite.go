package bench

import (
	"context"
	"iter"
	"slices"
)

const (
	TrialAddSimple    = "add-simple"
	TrialUpdateSimple = "update-simple"
	TrialAddTyped     = "add-typed"
	TrialUpdateTyped  = "update-typed"
)

// SuiteOrder is the fixed trial order. Each update trial works on the rows
// left behind by the add trial right before it.
var SuiteOrder = []string{TrialAddSimple, TrialUpdateSimple, TrialAddTyped, TrialUpdateTyped}

// Trials builds the four suite trials against store.
func (r *Runner) Trials(store Store, count int) []Trial {
	gen := r.Gen
	if gen == nil {
		gen = &Generator{}
	}

	inserts := func(ctx context.Context) ([]Employee, error) {
		return slices.Collect(gen.Generate(count)), nil
	}
	updates := func(ctx context.Context) ([]Employee, error) {
		rows, err := CollectAll(ctx, store)
		if err != nil {
			return nil, err
		}
		return slices.Collect(gen.Mutate(slices.Values(rows))), nil
	}

	return []Trial{
		{
			Name:    TrialAddSimple,
			Dataset: inserts,
			Action: func(ctx context.Context, e Employee) error {
				_, err := store.AddSimple(ctx, e)
				return err
			},
			Reset: store.TruncateTable,
		},
		{
			Name:    TrialUpdateSimple,
			Dataset: updates,
			Action: func(ctx context.Context, e Employee) error {
				_, err := store.UpdateSimple(ctx, e)
				return err
			},
		},
		{
			Name:    TrialAddTyped,
			Dataset: inserts,
			Action: func(ctx context.Context, e Employee) error {
				_, err := store.AddTyped(ctx, e)
				return err
			},
			Reset: store.TruncateTable,
		},
		{
			Name:    TrialUpdateTyped,
			Dataset: updates,
			Action: func(ctx context.Context, e Employee) error {
				_, err := store.UpdateTyped(ctx, e)
				return err
			},
		},
	}
}

// Suite runs the four trials lazily: a trial starts only when the previous
// result has been consumed. The first error is yielded and ends the sequence.
func (r *Runner) Suite(ctx context.Context, store Store, count int) iter.Seq2[TrialResult, error] {
	return func(yield func(TrialResult, error) bool) {
		if count < 1 {
			yield(TrialResult{}, ErrInvalidCount)
			return
		}
		for _, t := range r.Trials(store, count) {
			res, err := r.RunTrial(ctx, t)
			if err != nil {
				yield(TrialResult{}, err)
				return
			}
			if !yield(res, nil) {
				return
			}
		}
	}
}

// Run executes the whole suite and returns its results.
func (r *Runner) Run(ctx context.Context, store Store, count int) ([]TrialResult, error) {
	results := make([]TrialResult, 0, len(SuiteOrder))
	for res, err := range r.Suite(ctx, store, count) {
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
