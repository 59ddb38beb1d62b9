package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"crime_service/internal/domain/model"
)

// PrintForces writes the forces whose crimes carry no outcome, one per line.
func PrintForces(w io.Writer, forces []string) error {
	if _, err := fmt.Fprintf(w, "Forces not reporting outcomes (%d):\n", len(forces)); err != nil {
		return err
	}
	for _, f := range forces {
		if _, err := fmt.Fprintf(w, "  %s\n", f); err != nil {
			return err
		}
	}
	return nil
}

// PrintCounts writes the per-category counts as an aligned table.
func PrintCounts(w io.Writer, counts []model.AggregatedCount) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CRIME\tCOUNT")
	fmt.Fprintln(tw, strings.Repeat("-", 5)+"\t"+strings.Repeat("-", 5))
	total := 0
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
		total += c.Count
	}
	fmt.Fprintf(tw, "total\t%d\n", total)
	return tw.Flush()
}
