package app_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revlens/revlens/internal/adapters/repository"
	"github.com/revlens/revlens/internal/adapters/source"
	"github.com/revlens/revlens/internal/app"
	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func submission(n int, reviews ...model.Review) model.Submission {
	return model.Submission{SubmissionNumber: n, Reviews: reviews}
}

func review(id, reviewer string, rating float64) model.Review {
	return model.Review{ReviewID: id, ReviewerID: reviewer, Rating: rating, Confidence: 3.0}
}

// waitForRanked polls the lenient view until the snapshot holds reviewers or
// the deadline passes.
func waitForRanked(ctx context.Context, svc *app.Service) ([]model.ReviewerStats, error) {
	deadline := time.Now().Add(3 * time.Second)
	for {
		view, err := svc.TopView(ctx, model.ViewLenient, 10)
		if err == nil && len(view) > 0 {
			return view, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotReady) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return view, fmt.Errorf("rankings never converged: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServiceIngest(t *testing.T) {
	Convey("Given a started service with a fast rebuild interval", t, func() {
		svc := app.New(
			app.WithQueueSize(64),
			app.WithMinReviews(3),
			app.WithRebuildInterval(10*time.Millisecond),
		)
		ctx, cancel := context.WithCancel(context.Background())
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() {
			svc.Stop()
			cancel()
		})

		Convey("When three rated submissions for one reviewer are enqueued", func() {
			for i := 0; i < 3; i++ {
				accepted, duplicate := svc.Enqueue(ctx, submission(i+1, review(fmt.Sprintf("r%d", i), "~A", float64(4+2*i))))
				So(accepted, ShouldBeTrue)
				So(duplicate, ShouldBeFalse)
			}

			Convey("Then the reviewer shows up in the rankings", func() {
				view, err := waitForRanked(ctx, svc)
				So(err, ShouldBeNil)
				So(view, ShouldHaveLength, 1)
				So(view[0].ReviewerID, ShouldEqual, "~A")
				So(view[0].AvgRating, ShouldEqual, 6.0)
			})

			Convey("Then the reviewer lookup serves the same snapshot", func() {
				_, err := waitForRanked(ctx, svc)
				So(err, ShouldBeNil)

				s, err := svc.Reviewer(ctx, "~A")
				So(err, ShouldBeNil)
				So(s.Reviews, ShouldEqual, 3)
			})

			Convey("Then the anomaly report is served once built", func() {
				_, err := waitForRanked(ctx, svc)
				So(err, ShouldBeNil)

				rep, err := svc.Anomalies(ctx)
				So(err, ShouldBeNil)
				So(rep.Global.Reviewers, ShouldEqual, 1)
			})
		})

		Convey("When the same review id is posted twice", func() {
			accepted, duplicate := svc.Enqueue(ctx, submission(1, review("r1", "~A", 8)))
			So(accepted, ShouldBeTrue)
			So(duplicate, ShouldBeFalse)

			accepted, duplicate = svc.Enqueue(ctx, submission(1, review("r1", "~A", 8)))

			Convey("Then the re-post is acknowledged as a duplicate", func() {
				So(accepted, ShouldBeTrue)
				So(duplicate, ShouldBeTrue)
			})
		})

		Convey("When a record mixes fresh and duplicate reviews", func() {
			_, _ = svc.Enqueue(ctx, submission(1, review("r1", "~A", 8)))
			accepted, duplicate := svc.Enqueue(ctx, submission(2,
				review("r1", "~A", 8),
				review("r2", "~B", 5),
			))

			Convey("Then only the fresh review is ingested", func() {
				So(accepted, ShouldBeTrue)
				So(duplicate, ShouldBeFalse)
			})
		})

		Convey("When service statistics are requested", func() {
			stats := svc.GetStats()

			Convey("Then the monitoring keys are present", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats, ShouldContainKey, "queue_length")
				So(stats, ShouldContainKey, "ranked_reviewers")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		Convey("Then Stop is a no-op and stats show the state", func() {
			svc.Stop()
			So(svc.GetStats()["started"], ShouldBeFalse)
		})
	})
}

func TestServiceLoadFile(t *testing.T) {
	Convey("Given a dataset file with one malformed line", t, func() {
		lines := `{"submission_number": 1, "reviews": [{"review_id": "a1", "reviewer_id": "~A", "rating": 8}]}
{"submission_number": 2, "reviews": [{"review_id": "a2", "reviewer_id": "~A", "rating": 6}]}
not json at all
{"submission_number": 3, "reviews": [{"review_id": "a3", "reviewer_id": "~A", "rating": 4}]}
`
		path := filepath.Join(t.TempDir(), "reviews.ndjson")
		So(os.WriteFile(path, []byte(lines), 0o600), ShouldBeNil)

		svc := app.New(
			app.WithMinReviews(3),
			app.WithRebuildInterval(10*time.Millisecond),
		)
		ctx, cancel := context.WithCancel(context.Background())
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() {
			svc.Stop()
			cancel()
		})

		Convey("When the file is loaded", func() {
			processed, skipped, err := svc.LoadFile(ctx, path)

			Convey("Then decodable records flow through and bad lines are skipped", func() {
				So(err, ShouldBeNil)
				So(processed, ShouldEqual, 3)
				So(skipped, ShouldEqual, 1)

				view, werr := waitForRanked(ctx, svc)
				So(werr, ShouldBeNil)
				So(view[0].ReviewerID, ShouldEqual, "~A")
			})
		})
	})

	Convey("Given a missing dataset file", t, func() {
		svc := app.New(app.WithRebuildInterval(time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() {
			svc.Stop()
			cancel()
		})

		Convey("Then the load fails fatally with the unavailable sentinel", func() {
			_, _, err := svc.LoadFile(ctx, filepath.Join(t.TempDir(), "nope.ndjson"))
			So(errors.Is(err, source.ErrSourceUnavailable), ShouldBeTrue)
		})
	})
}
