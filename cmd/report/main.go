// Command report runs one offline aggregation pass over an NDJSON review
// dump and writes the ranking views plus the anomaly report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/revlens/revlens/internal/adapters/source"
	"github.com/revlens/revlens/internal/domain/aggregate"
	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/logger"
)

type report struct {
	Rankings  model.RankingSet `json:"rankings"`
	Anomalies anomaly.Report   `json:"anomalies"`
	Records   int              `json:"records_processed"`
	Skipped   int              `json:"records_skipped"`
}

func main() {
	dataFile := flag.String("data", "", "path to the NDJSON review dump (required)")
	out := flag.String("out", "", "output file (default stdout)")
	minReviews := flag.Int("min-reviews", 3, "minimum review count for a reviewer to be ranked")
	topK := flag.Int("top-k", 200, "entries kept per ranking view")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *dataFile == "" {
		os.Stderr.WriteString("usage: report -data reviews.ndjson [-out report.json]\n")
		os.Exit(2)
	}

	rd, err := source.Open(*dataFile, source.WithLogger(log.Named("source")))
	if err != nil {
		log.Fatal(ctx, "cannot open data source", logger.Error(err))
	}
	defer func() { _ = rd.Close() }()

	agg := aggregate.New(
		aggregate.WithTopK(*topK),
		aggregate.WithLogger(log),
	)
	rankings, err := agg.Run(ctx, rd, *minReviews)
	if err != nil {
		log.Fatal(ctx, "aggregation failed", logger.Error(err))
	}

	rep := report{
		Rankings:  rankings,
		Anomalies: anomaly.Detect(agg.Stats(*minReviews)),
		Records:   rd.Processed(),
		Skipped:   rd.Skipped(),
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal(ctx, "cannot create output file", logger.Error(err))
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		log.Fatal(ctx, "cannot write report", logger.Error(err))
	}

	log.Info(ctx, "report written",
		logger.Int("records", rd.Processed()),
		logger.Int("skipped", rd.Skipped()),
	)
}
