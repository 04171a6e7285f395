package aggregate

import (
	"sort"

	"github.com/revlens/revlens/internal/domain/model"
)

// BuildRankings produces the six top-K views from an already-derived stats
// slice. All views share one sort-and-truncate helper so tie-breaking and
// truncation behave identically everywhere: sorting is stable, so reviewers
// earlier in the input keep precedence on exact key ties.
func BuildRankings(reviewers []model.ReviewerStats, topK int) model.RankingSet {
	if topK < 1 {
		topK = defaultTopK
	}

	// The volatility views only make sense where std-dev is defined.
	withStd := make([]model.ReviewerStats, 0, len(reviewers))
	for _, s := range reviewers {
		if s.RatingStd != nil {
			withStd = append(withStd, s)
		}
	}

	return model.RankingSet{
		Lenient: rankBy(reviewers, topK, func(a, b model.ReviewerStats) bool {
			return a.AvgRating > b.AvgRating
		}),
		Strict: rankBy(reviewers, topK, func(a, b model.ReviewerStats) bool {
			return a.AvgRating < b.AvgRating
		}),
		Volatile: rankBy(withStd, topK, func(a, b model.ReviewerStats) bool {
			return *a.RatingStd > *b.RatingStd
		}),
		Steady: rankBy(withStd, topK, func(a, b model.ReviewerStats) bool {
			return *a.RatingStd < *b.RatingStd
		}),
		Wordiest: rankBy(reviewers, topK, func(a, b model.ReviewerStats) bool {
			return a.AvgTextWords > b.AvgTextWords
		}),
		QuestionHeavy: rankBy(reviewers, topK, func(a, b model.ReviewerStats) bool {
			return a.AvgQuestionWords > b.AvgQuestionWords
		}),
	}
}

// rankBy copies, stably sorts, and truncates to limit. The copy keeps every
// view independent of the others and of the caller's slice.
func rankBy(reviewers []model.ReviewerStats, limit int, less func(a, b model.ReviewerStats) bool) []model.ReviewerStats {
	out := make([]model.ReviewerStats, len(reviewers))
	copy(out, reviewers)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	if len(out) > limit {
		out = out[:limit:limit]
	}
	return out
}
