package processor

import (
	"fmt"
	"io"

	"github.com/Kavirubc/simili-backfill/pkg/models"
)

// PrintSummary writes the end-of-run report
func PrintSummary(w io.Writer, r *models.RunReport) {
	fmt.Fprintln(w, "\n=== Backfill Summary ===")
	fmt.Fprintf(w, "Open issues:     %d\n", r.TotalIssues)
	fmt.Fprintf(w, "Already indexed: %d\n", r.Existing)
	fmt.Fprintf(w, "New:             %d\n", r.New)

	rate, ok := r.SuccessRate()
	if !ok {
		fmt.Fprintln(w, "Nothing to do: no new issues were processed")
		fmt.Fprintf(w, "Duration:        %dms\n", r.DurationMs)
		return
	}

	fmt.Fprintf(w, "Processed:       %d\n", r.Processed)
	fmt.Fprintf(w, "Succeeded:       %d\n", r.Succeeded)
	fmt.Fprintf(w, "Failed:          %d\n", r.Failed)
	fmt.Fprintf(w, "Success rate:    %.1f%%\n", rate)
	fmt.Fprintf(w, "Duration:        %dms\n", r.DurationMs)
}
