// Package anomaly flags reviewers whose aggregate behavior deviates
// sharply from the population: extreme or inconsistent raters and
// reviewers whose stated confidence is far above or below the norm.
// Detection is a pure function over the finalized statistics slice.
package anomaly

import (
	"math"
	"sort"

	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/internal/domain/stats"
)

// Detection thresholds and list caps.
const (
	extremeRatingSigma    = 2.0 // |avg - global mean| beyond this many stds
	confidenceSigma       = 1.5
	inconsistentStdCutoff = 2.5

	maxExtreme      = 20
	maxInconsistent = 15
	maxConfidence   = 15
)

// ExtremeRater is a reviewer whose mean rating sits far from the global mean.
type ExtremeRater struct {
	ReviewerID string  `json:"reviewer_id"`
	AvgRating  float64 `json:"avg_rating"`
	GlobalAvg  float64 `json:"global_avg"`
	Deviation  float64 `json:"deviation"`
	Reviews    int     `json:"review_count"`
	High       bool    `json:"extreme_high"`
}

// InconsistentRater is a reviewer with an unusually large rating spread.
type InconsistentRater struct {
	ReviewerID  string  `json:"reviewer_id"`
	RatingStd   float64 `json:"rating_std"`
	AvgRating   float64 `json:"avg_rating"`
	RatingRange float64 `json:"rating_range"`
	Reviews     int     `json:"review_count"`
}

// ConfidenceOutlier is a reviewer whose mean confidence deviates from the
// global mean by more than confidenceSigma standard deviations.
type ConfidenceOutlier struct {
	ReviewerID    string  `json:"reviewer_id"`
	AvgConfidence float64 `json:"avg_confidence"`
	GlobalAvg     float64 `json:"global_avg_confidence"`
	Reviews       int     `json:"review_count"`
}

// GlobalStats summarizes the population the outliers were measured against.
type GlobalStats struct {
	Reviewers      int     `json:"total_reviewers"`
	RatingMean     float64 `json:"global_rating_mean"`
	RatingStd      float64 `json:"global_rating_std"`
	ConfidenceMean float64 `json:"global_confidence_mean"`
	ConfidenceStd  float64 `json:"global_confidence_std"`
}

// Report collects every anomaly class detected in one pass.
type Report struct {
	Extreme        []ExtremeRater      `json:"extreme_raters"`
	Inconsistent   []InconsistentRater `json:"inconsistent_raters"`
	OverConfident  []ConfidenceOutlier `json:"over_confident"`
	UnderConfident []ConfidenceOutlier `json:"under_confident"`
	Global         GlobalStats         `json:"global_statistics"`
}

// Detect computes global rating/confidence statistics over the reviewer
// snapshots and flags outliers. The input slice is not modified.
func Detect(reviewers []model.ReviewerStats) Report {
	avgRatings := make([]float64, 0, len(reviewers))
	avgConfidences := make([]float64, 0, len(reviewers))
	for _, r := range reviewers {
		avgRatings = append(avgRatings, r.AvgRating)
		avgConfidences = append(avgConfidences, r.AvgConfidence)
	}

	global := GlobalStats{
		Reviewers:      len(reviewers),
		RatingMean:     stats.Mean(avgRatings),
		RatingStd:      stats.PopulationStd(avgRatings),
		ConfidenceMean: stats.Mean(avgConfidences),
		ConfidenceStd:  stats.PopulationStd(avgConfidences),
	}

	rep := Report{Global: global}
	for _, r := range reviewers {
		if dev := math.Abs(r.AvgRating - global.RatingMean); global.RatingStd > 0 && dev > extremeRatingSigma*global.RatingStd {
			rep.Extreme = append(rep.Extreme, ExtremeRater{
				ReviewerID: r.ReviewerID,
				AvgRating:  r.AvgRating,
				GlobalAvg:  global.RatingMean,
				Deviation:  dev,
				Reviews:    r.Reviews,
				High:       r.AvgRating > global.RatingMean,
			})
		}
		if r.RatingStd != nil && *r.RatingStd > inconsistentStdCutoff {
			rep.Inconsistent = append(rep.Inconsistent, InconsistentRater{
				ReviewerID:  r.ReviewerID,
				RatingStd:   *r.RatingStd,
				AvgRating:   r.AvgRating,
				RatingRange: r.MaxRating - r.MinRating,
				Reviews:     r.Reviews,
			})
		}
		if global.ConfidenceStd > 0 {
			switch {
			case r.AvgConfidence > global.ConfidenceMean+confidenceSigma*global.ConfidenceStd:
				rep.OverConfident = append(rep.OverConfident, confidenceOutlier(r, global))
			case r.AvgConfidence < global.ConfidenceMean-confidenceSigma*global.ConfidenceStd:
				rep.UnderConfident = append(rep.UnderConfident, confidenceOutlier(r, global))
			}
		}
	}

	sort.SliceStable(rep.Extreme, func(i, j int) bool {
		return rep.Extreme[i].Deviation > rep.Extreme[j].Deviation
	})
	sort.SliceStable(rep.Inconsistent, func(i, j int) bool {
		return rep.Inconsistent[i].Reviews > rep.Inconsistent[j].Reviews
	})
	sort.SliceStable(rep.OverConfident, func(i, j int) bool {
		return rep.OverConfident[i].Reviews > rep.OverConfident[j].Reviews
	})
	sort.SliceStable(rep.UnderConfident, func(i, j int) bool {
		return rep.UnderConfident[i].Reviews > rep.UnderConfident[j].Reviews
	})

	rep.Extreme = truncate(rep.Extreme, maxExtreme)
	rep.Inconsistent = truncate(rep.Inconsistent, maxInconsistent)
	rep.OverConfident = truncate(rep.OverConfident, maxConfidence)
	rep.UnderConfident = truncate(rep.UnderConfident, maxConfidence)
	return rep
}

func confidenceOutlier(r model.ReviewerStats, g GlobalStats) ConfidenceOutlier {
	return ConfidenceOutlier{
		ReviewerID:    r.ReviewerID,
		AvgConfidence: r.AvgConfidence,
		GlobalAvg:     g.ConfidenceMean,
		Reviews:       r.Reviews,
	}
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n:n]
	}
	return s
}
