package recommend

import (
	"fmt"
	"io"
	"strconv"
)

const plotLimit = 200

// TruncatePlot keeps the first 200 runes of plot and marks the cut with "...".
// An empty plot stays empty.
func TruncatePlot(plot string) string {
	if len(plot) == 0 {
		return ""
	}

	runes := []rune(plot)
	if len(runes) > plotLimit {
		runes = runes[:plotLimit]
	}

	return string(runes) + "..."
}

func FormatYear(year int) string {
	if year == 0 {
		return "N/A"
	}
	return strconv.Itoa(year)
}

// Render writes recs as a numbered list.
func Render(w io.Writer, recs []Recommendation) {
	for i, r := range recs {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, r.Movie.Title, FormatYear(r.Movie.Year))
		fmt.Fprintf(w, "   Similarity: %.1f%%\n", r.Similarity)
		if plot := TruncatePlot(r.Movie.Plot); len(plot) > 0 {
			fmt.Fprintf(w, "   Plot: %s\n", plot)
		}
		fmt.Fprintln(w)
	}
}
