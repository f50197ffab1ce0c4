// Package report formats benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/threadstone/threadstone/harness"
	"github.com/threadstone/threadstone/workload"
)

// Generate writes a markdown comparison table for the given results.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	sameWorkload := checkWorkloads(results)
	best := findBest(results)

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	if !sameWorkload {
		fmt.Fprintln(w, "Workloads: **MISMATCH** (relative column is not comparable)")

		for _, r := range results {
			fmt.Fprintf(w, "  - %s: %s\n", shortID(r.ID), r.Workload)
		}

		fmt.Fprintln(w)
	}

	// Table header.
	fmt.Fprintln(w, "| Run | Workload | Threads | Samples | Average "+
		"| Min | Max | Working Set | vs Best |")
	fmt.Fprintln(w, "|-----|----------|---------|---------|---------"+
		"|-----|-----|-------------|---------|")

	for _, r := range results {
		relative := 1.0
		if best > 0 && r.Average > 0 {
			relative = best / r.Average
		}

		fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %s | %s | %s | %.2fx |\n",
			shortID(r.ID),
			r.Workload,
			r.Threads,
			r.Samples,
			formatRate(r.Average, r.Unit),
			formatRate(r.Min, r.Unit),
			formatRate(r.Max, r.Unit),
			formatBytes(r.WorkingSetBytes),
			relative,
		)
	}

	fmt.Fprintln(w)

	// Per-sample rows.
	fmt.Fprintln(w, "| Run | Sample | Value | Elapsed |")
	fmt.Fprintln(w, "|-----|--------|-------|---------|")

	for _, r := range results {
		for i, v := range r.Values {
			var elapsed string
			if i < len(r.SampleElapsedMs) {
				elapsed = formatMs(r.SampleElapsedMs[i])
			}

			fmt.Fprintf(w, "| %s | %d | %s | %s |\n",
				shortID(r.ID), i, formatRate(v, r.Unit), elapsed)
		}
	}

	for _, r := range results {
		if r.Workload == "dhrystone" {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s: %.1f DMIPS average\n",
				shortID(r.ID), workload.DMIPS(r.Average))
		}
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

func checkWorkloads(results []harness.Result) bool {
	if len(results) < 2 {
		return true
	}

	first := results[0].Workload
	for _, r := range results[1:] {
		if r.Workload != first {
			return false
		}
	}

	return true
}

// findBest returns the highest average rate.
func findBest(results []harness.Result) float64 {
	var best float64
	for _, r := range results {
		if r.Average > best {
			best = r.Average
		}
	}

	return best
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func formatRate(v float64, unit string) string {
	suffixes := []string{"", "K", "M", "G", "T"}
	i := 0

	for v >= 1000 && i < len(suffixes)-1 {
		v /= 1000
		i++
	}

	return fmt.Sprintf("%.2f%s %s", v, suffixes[i], unit)
}

func formatMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}

	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
