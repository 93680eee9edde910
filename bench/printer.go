package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Column widths of the results table.
const (
	nameWidth    = 16
	elapsedWidth = 14
	iterWidth    = 12
)

// Format renders one line per result, in the given order.
func Format(results []TrialResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %-*s %-*s %s\n", nameWidth, "Trial", elapsedWidth, "Elapsed", iterWidth, "Iterations", "Avg/iter")
	fmt.Fprintf(&b, "%s %s %s %s\n",
		strings.Repeat("─", nameWidth), strings.Repeat("─", elapsedWidth),
		strings.Repeat("─", iterWidth), strings.Repeat("─", 10))
	for _, r := range results {
		b.WriteString(FormatRow(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatRow renders a single result line without the trailing newline.
func FormatRow(r TrialResult) string {
	return fmt.Sprintf("%-*s %-*s %-*d %s",
		nameWidth, r.Name,
		elapsedWidth, r.Elapsed.Round(time.Microsecond),
		iterWidth, r.Iterations,
		FmtDur(r.PerIteration()))
}

func PrintComparison(w io.Writer, c Comparison) {
	verdict := "typed binding costs more"
	if c.Overhead() <= 0 {
		verdict = "typed binding is no slower"
	}

	fmt.Fprintf(w, "\n╔═════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  %-59s║\n", strings.ToUpper(c.Operation)+": SIMPLE vs TYPED BINDING")
	fmt.Fprintf(w, "╠═══════════════════╦════════════════╦════════════════════════╣\n")
	fmt.Fprintf(w, "║  Metric           ║  Simple        ║  Typed                 ║\n")
	fmt.Fprintf(w, "╠═══════════════════╬════════════════╬════════════════════════╣\n")
	fmt.Fprintf(w, "║  Rows             ║  %-13d ║  %-21d ║\n", c.Simple.Iterations, c.Typed.Iterations)
	fmt.Fprintf(w, "║  Elapsed          ║  %-13s ║  %-21s ║\n", c.Simple.Elapsed.Round(time.Millisecond), c.Typed.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "║  Rows/sec         ║  %-13.1f ║  %-21.1f ║\n", c.Simple.Throughput(), c.Typed.Throughput())
	fmt.Fprintf(w, "║  Avg/row          ║  %-13s ║  %-21s ║\n", FmtDur(c.Simple.PerIteration()), FmtDur(c.Typed.PerIteration()))
	fmt.Fprintf(w, "╠═══════════════════╩════════════════╩════════════════════════╣\n")
	fmt.Fprintf(w, "║  Typed overhead/row:  %-37s ║\n", fmt.Sprintf("%s (%+.1f%%)", FmtDur(c.Overhead()), c.OverheadPct()))
	fmt.Fprintf(w, "║  Throughput change:   %-37s ║\n", fmt.Sprintf("%+.1f%%", c.ThroughputDelta()))
	fmt.Fprintf(w, "║  %-59s║\n", verdict)
	fmt.Fprintf(w, "╚═════════════════════════════════════════════════════════════╝\n")
}

// FmtDur prints short durations in µs and longer ones in ms.
func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us > -1000 && us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	return fmt.Sprintf("%.2fms", us/1000)
}

// Report is the machine-readable form of a suite run.
type Report struct {
	RunID      string        `json:"run_id"`
	Driver     string        `json:"driver"`
	Iterations int           `json:"iterations"`
	Warmup     int           `json:"warmup"`
	StartedAt  time.Time     `json:"started_at"`
	Results    []TrialResult `json:"results"`
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
