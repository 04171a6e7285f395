// Package model contains domain models passed between layers.
package model

// Submission represents one conference submission record as it appears in
// the line-delimited JSON dataset. A record carries zero or more reviews.
type Submission struct {
	SubmissionNumber int      `json:"submission_number"`
	Reviews          []Review `json:"reviews"`
}

// Review is a single reviewer's review of a submission. Rating and
// confidence are kept as raw JSON values because the dataset mixes plain
// numbers with strings like "8 (accept)"; extraction is the job of the
// numparse package.
type Review struct {
	ReviewID           string `json:"review_id"`
	ReviewerID         string `json:"reviewer_id"`
	ReviewerProfileURL string `json:"reviewer_profile_url"`
	Rating             any    `json:"rating"`
	Confidence         any    `json:"confidence"`
	TotalTextWords     int    `json:"total_text_words"`
	QuestionsWords     int    `json:"questions_words"`
	HasEthicsFlag      bool   `json:"has_ethics_flag"`
}

// ReviewerStats is the immutable per-reviewer snapshot derived once
// aggregation completes. RatingStd is nil when the reviewer has fewer than
// two ratings (population std-dev is undefined there).
type ReviewerStats struct {
	ReviewerID       string   `json:"reviewer_id"`
	ProfileURL       string   `json:"profile_url"`
	Reviews          int      `json:"reviews"`
	AvgRating        float64  `json:"avg_rating"`
	MedianRating     float64  `json:"median_rating"`
	MinRating        float64  `json:"min_rating"`
	MaxRating        float64  `json:"max_rating"`
	RatingStd        *float64 `json:"rating_std"`
	AvgConfidence    float64  `json:"avg_confidence"`
	AvgTextWords     float64  `json:"avg_text_words"`
	AvgQuestionWords float64  `json:"avg_questions_words"`
	EthicsFlags      int      `json:"ethics_flags"`
}

// Names of the six ranking views produced by one aggregation run.
const (
	ViewLenient       = "lenient"
	ViewStrict        = "strict"
	ViewVolatile      = "volatile"
	ViewSteady        = "steady"
	ViewWordiest      = "wordiest"
	ViewQuestionHeavy = "question_heavy"
)

// ViewNames lists all ranking views in their canonical order.
func ViewNames() []string {
	return []string{ViewLenient, ViewStrict, ViewVolatile, ViewSteady, ViewWordiest, ViewQuestionHeavy}
}

// RankingSet holds the six independently sorted top-K views computed from
// one aggregation run. Each slice is truncated to the configured top-K.
type RankingSet struct {
	Lenient       []ReviewerStats `json:"lenient"`
	Strict        []ReviewerStats `json:"strict"`
	Volatile      []ReviewerStats `json:"volatile"`
	Steady        []ReviewerStats `json:"steady"`
	Wordiest      []ReviewerStats `json:"wordiest"`
	QuestionHeavy []ReviewerStats `json:"question_heavy"`
}

// View returns the named view and whether the name is known.
func (r *RankingSet) View(name string) ([]ReviewerStats, bool) {
	switch name {
	case ViewLenient:
		return r.Lenient, true
	case ViewStrict:
		return r.Strict, true
	case ViewVolatile:
		return r.Volatile, true
	case ViewSteady:
		return r.Steady, true
	case ViewWordiest:
		return r.Wordiest, true
	case ViewQuestionHeavy:
		return r.QuestionHeavy, true
	default:
		return nil, false
	}
}
