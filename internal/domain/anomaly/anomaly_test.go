package anomaly_test

import (
	"fmt"
	"testing"

	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func reviewer(id string, avgRating, avgConfidence float64, reviews int) model.ReviewerStats {
	return model.ReviewerStats{
		ReviewerID:    id,
		Reviews:       reviews,
		AvgRating:     avgRating,
		AvgConfidence: avgConfidence,
	}
}

func withStd(s model.ReviewerStats, std, min, max float64) model.ReviewerStats {
	s.RatingStd = &std
	s.MinRating = min
	s.MaxRating = max
	return s
}

func TestDetect(t *testing.T) {
	Convey("Given a tight population with one far-off rater", t, func() {
		pop := []model.ReviewerStats{
			reviewer("~A", 5.0, 3.0, 5),
			reviewer("~B", 5.2, 3.1, 4),
			reviewer("~C", 4.8, 2.9, 6),
			reviewer("~D", 5.1, 3.0, 5),
			reviewer("~E", 4.9, 3.0, 3),
			reviewer("~Generous", 9.5, 3.0, 8),
		}

		rep := anomaly.Detect(pop)

		Convey("Then the far-off rater is flagged as extreme high", func() {
			So(rep.Extreme, ShouldHaveLength, 1)
			So(rep.Extreme[0].ReviewerID, ShouldEqual, "~Generous")
			So(rep.Extreme[0].High, ShouldBeTrue)
			So(rep.Extreme[0].Reviews, ShouldEqual, 8)
		})

		Convey("Then global statistics cover the whole population", func() {
			So(rep.Global.Reviewers, ShouldEqual, 6)
			So(rep.Global.RatingMean, ShouldBeGreaterThan, 4.9)
			So(rep.Global.RatingStd, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given reviewers with a large rating spread", t, func() {
		pop := []model.ReviewerStats{
			withStd(reviewer("~Calm", 5.0, 3.0, 10), 0.4, 4, 6),
			withStd(reviewer("~Wild", 5.0, 3.0, 4), 3.1, 1, 10),
			withStd(reviewer("~Wilder", 5.0, 3.0, 9), 2.8, 1, 9),
		}

		rep := anomaly.Detect(pop)

		Convey("Then only spreads above the cutoff are flagged, busiest first", func() {
			So(rep.Inconsistent, ShouldHaveLength, 2)
			So(rep.Inconsistent[0].ReviewerID, ShouldEqual, "~Wilder")
			So(rep.Inconsistent[1].ReviewerID, ShouldEqual, "~Wild")
			So(rep.Inconsistent[1].RatingRange, ShouldEqual, 9.0)
		})

		Convey("And a reviewer without a defined std is never flagged", func() {
			rep := anomaly.Detect([]model.ReviewerStats{reviewer("~One", 5.0, 3.0, 1)})
			So(rep.Inconsistent, ShouldBeEmpty)
		})
	})

	Convey("Given confidence outliers on both sides", t, func() {
		pop := []model.ReviewerStats{
			reviewer("~A", 5, 3.0, 5),
			reviewer("~B", 5, 3.1, 5),
			reviewer("~C", 5, 2.9, 5),
			reviewer("~D", 5, 3.0, 5),
			reviewer("~Sure", 5, 5.0, 5),
			reviewer("~Timid", 5, 1.0, 5),
		}

		rep := anomaly.Detect(pop)

		Convey("Then both tails are reported separately", func() {
			So(rep.OverConfident, ShouldHaveLength, 1)
			So(rep.OverConfident[0].ReviewerID, ShouldEqual, "~Sure")
			So(rep.UnderConfident, ShouldHaveLength, 1)
			So(rep.UnderConfident[0].ReviewerID, ShouldEqual, "~Timid")
		})
	})

	Convey("Given a population with zero variance", t, func() {
		pop := []model.ReviewerStats{
			reviewer("~A", 5, 3, 5),
			reviewer("~B", 5, 3, 5),
		}

		Convey("Then nothing is flagged and nothing divides by zero", func() {
			rep := anomaly.Detect(pop)
			So(rep.Extreme, ShouldBeEmpty)
			So(rep.OverConfident, ShouldBeEmpty)
			So(rep.UnderConfident, ShouldBeEmpty)
		})
	})

	Convey("Given an empty population", t, func() {
		Convey("Then detection degrades gracefully", func() {
			rep := anomaly.Detect(nil)
			So(rep.Global.Reviewers, ShouldEqual, 0)
			So(rep.Extreme, ShouldBeEmpty)
		})
	})

	Convey("Given more inconsistent raters than the report cap", t, func() {
		pop := make([]model.ReviewerStats, 0, 30)
		for i := 0; i < 30; i++ {
			pop = append(pop, withStd(reviewer(fmt.Sprintf("~R%02d", i), 5, 3, i+1), 3.0, 1, 10))
		}

		Convey("Then the list is truncated keeping the busiest reviewers", func() {
			rep := anomaly.Detect(pop)
			So(rep.Inconsistent, ShouldHaveLength, 15)
			So(rep.Inconsistent[0].Reviews, ShouldEqual, 30)
			So(rep.Inconsistent[14].Reviews, ShouldEqual, 16)
		})
	})
}
