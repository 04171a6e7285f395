// Command gen-reviews writes a synthetic NDJSON review dump.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/revlens/revlens/internal/genreviews"
)

func main() {
	submissions := flag.Int("submissions", 1000, "number of submission records")
	reviewers := flag.Int("reviewers", 200, "number of distinct reviewers")
	reviewsPerSub := flag.Int("reviews-per-sub", 4, "reviews attached to each submission")
	seed := flag.Int64("seed", 42, "rng seed")
	stringRatings := flag.Float64("string-ratings", 0.2, "fraction of ratings emitted as annotated strings")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create output file:", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	gen := genreviews.New(genreviews.Config{
		Submissions:        *submissions,
		Reviewers:          *reviewers,
		ReviewsPerSub:      *reviewsPerSub,
		Seed:               *seed,
		StringRatingsRatio: *stringRatings,
	})
	n, err := gen.WriteTo(w)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generation failed:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d records\n", n)
}
