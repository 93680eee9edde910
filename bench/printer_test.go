package bench

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	results := []TrialResult{
		{Name: TrialAddSimple, Iterations: 1000, Elapsed: 2 * time.Second},
		{Name: TrialUpdateSimple, Iterations: 1000, Elapsed: 1500 * time.Millisecond},
	}

	output := Format(results)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[0], "Trial") {
		t.Errorf("header = %q, want it to start with Trial", lines[0])
	}
	if !strings.HasPrefix(lines[2], TrialAddSimple) {
		t.Errorf("row 1 = %q, want add-simple first", lines[2])
	}
	if !strings.HasPrefix(lines[3], TrialUpdateSimple) {
		t.Errorf("row 2 = %q, want update-simple second", lines[3])
	}
	if !strings.Contains(lines[2], "2s") || !strings.Contains(lines[2], "1000") {
		t.Errorf("row 1 = %q, want elapsed and iterations", lines[2])
	}
	if !strings.Contains(lines[2], "2.00ms") {
		t.Errorf("row 1 = %q, want 2.00ms per iteration", lines[2])
	}
}

func TestFormatColumnOrderAndWidths(t *testing.T) {
	row := FormatRow(TrialResult{Name: "x", Iterations: 7, Elapsed: time.Millisecond})

	nameIdx := strings.Index(row, "x")
	elapsedIdx := strings.Index(row, "1ms")
	iterIdx := strings.Index(row, "7")
	if !(nameIdx < elapsedIdx && elapsedIdx < iterIdx) {
		t.Errorf("row %q: want name, elapsed, iterations in order", row)
	}
	if elapsedIdx != nameWidth+1 {
		t.Errorf("elapsed column starts at %d, want %d", elapsedIdx, nameWidth+1)
	}
	if iterIdx != nameWidth+elapsedWidth+2 {
		t.Errorf("iterations column starts at %d, want %d", iterIdx, nameWidth+elapsedWidth+2)
	}
}

func TestFormatEmpty(t *testing.T) {
	output := Format(nil)
	if got := strings.Count(output, "\n"); got != 2 {
		t.Errorf("expected header only, got %d lines", got)
	}
}

func TestPrintComparison(t *testing.T) {
	c := Compare("add",
		TrialResult{Name: TrialAddSimple, Iterations: 100, Elapsed: 100 * time.Millisecond},
		TrialResult{Name: TrialAddTyped, Iterations: 100, Elapsed: 150 * time.Millisecond},
	)

	var buf bytes.Buffer
	PrintComparison(&buf, c)
	output := buf.String()

	for _, want := range []string{"ADD: SIMPLE vs TYPED BINDING", "1000.0", "666.7", "+50.0%", "costs more"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFmtDur(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0µs"},
		{250 * time.Microsecond, "250µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{-300 * time.Microsecond, "-300µs"},
		{2 * time.Second, "2000.00ms"},
	}
	for _, tt := range tests {
		if got := FmtDur(tt.input); got != tt.want {
			t.Errorf("FmtDur(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	report := Report{
		RunID:      "run-1",
		Driver:     DriverMemory,
		Iterations: 10,
		Results:    []TrialResult{{Name: TrialAddTyped, Iterations: 10, Elapsed: time.Millisecond}},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.RunID != "run-1" {
		t.Errorf("run_id = %q, want run-1", parsed.RunID)
	}
	if len(parsed.Results) != 1 || parsed.Results[0].Elapsed != time.Millisecond {
		t.Errorf("results = %+v, want one 1ms result", parsed.Results)
	}
	if !strings.Contains(buf.String(), `"elapsed_ns": 1000000`) {
		t.Errorf("expected elapsed in nanoseconds:\n%s", buf.String())
	}
}
