package recommend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const quit = "quit"

// RunREPL reads queries from in until "quit" or EOF and writes n
// recommendations per query to out. Query failures are printed and the loop
// continues.
func RunREPL(ctx context.Context, svc *Service, in io.Reader, out io.Writer, n int) error {
	fmt.Fprintln(out, "🎬 Movie Recommendation System")
	fmt.Fprintln(out, "Enter a description or keywords to find similar movies")
	fmt.Fprintf(out, "Type '%s' to exit\n\n", quit)

	reader := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "\n🔍 Enter your search: ")

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		// A final line without a newline still counts as a query.
		last := err != nil
		query := strings.TrimSpace(line)

		if last && len(query) == 0 {
			fmt.Fprintln(out)
			return nil
		}

		if strings.EqualFold(query, quit) {
			return nil
		}

		if len(query) == 0 {
			fmt.Fprintln(out, "Please enter a search query")
			continue
		}

		fmt.Fprintln(out, "\nSearching for similar movies...")

		start := time.Now()

		recs, err := svc.Recommend(ctx, query, n)
		if err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "\n✨ Found %d matches in %.2f seconds:\n\n", len(recs), time.Since(start).Seconds())
			Render(out, recs)
		}

		fmt.Fprintln(out, "\n"+strings.Repeat("-", 50))

		if last {
			return nil
		}
	}
}
