package bench

import "time"

// Comparison pairs the simple and typed results of the same operation.
type Comparison struct {
	Operation string
	Simple    TrialResult
	Typed     TrialResult
}

func Compare(op string, simple, typed TrialResult) Comparison {
	return Comparison{Operation: op, Simple: simple, Typed: typed}
}

// Overhead is the extra time per iteration the typed strategy costs. Negative
// means typed binding was faster.
func (c Comparison) Overhead() time.Duration {
	return c.Typed.PerIteration() - c.Simple.PerIteration()
}

// OverheadPct is Overhead relative to the simple strategy.
func (c Comparison) OverheadPct() float64 {
	base := c.Simple.PerIteration()
	if base == 0 {
		return 0
	}
	return float64(c.Overhead()) / float64(base) * 100
}

// ThroughputDelta is the relative change in rows/sec going from simple to
// typed binding.
func (c Comparison) ThroughputDelta() float64 {
	s := c.Simple.Throughput()
	if s == 0 {
		return 0
	}
	return (c.Typed.Throughput() - s) / s * 100
}

// Pairs matches add and update results by name. Missing trials are skipped.
func Pairs(results []TrialResult) []Comparison {
	byName := make(map[string]TrialResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	var out []Comparison
	for _, p := range []struct{ op, simple, typed string }{
		{"add", TrialAddSimple, TrialAddTyped},
		{"update", TrialUpdateSimple, TrialUpdateTyped},
	} {
		s, okS := byName[p.simple]
		t, okT := byName[p.typed]
		if okS && okT {
			out = append(out, Compare(p.op, s, t))
		}
	}
	return out
}
