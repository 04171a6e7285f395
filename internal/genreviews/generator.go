// Package genreviews produces synthetic NDJSON review dumps for load tests
// and local development. Reviewers are drawn from archetypes with known
// statistical signatures so the resulting rankings are easy to eyeball.
package genreviews

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
	"github.com/revlens/revlens/internal/domain/model"
)

// Reviewer archetypes.
const (
	archetypeLenient = iota
	archetypeStrict
	archetypeVolatile
	archetypeSteady
	archetypeWordy
	archetypeInquisitive
	archetypeCount
)

// Config controls dataset generation.
type Config struct {
	Submissions        int
	Reviewers          int
	ReviewsPerSub      int
	Seed               int64
	StringRatingsRatio float64 // fraction of ratings emitted as "8 (accept)"-style strings
}

// Generator emits submission records.
type Generator struct {
	cfg Config
	rng *rand.Rand

	reviewerIDs []string
	archetypes  []int
}

// New creates a generator with a deterministic RNG.
func New(cfg Config) *Generator {
	if cfg.Submissions <= 0 {
		cfg.Submissions = 1000
	}
	if cfg.Reviewers <= 0 {
		cfg.Reviewers = 200
	}
	if cfg.ReviewsPerSub <= 0 {
		cfg.ReviewsPerSub = 4
	}

	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // reproducible test data
	}
	g.reviewerIDs = make([]string, cfg.Reviewers)
	g.archetypes = make([]int, cfg.Reviewers)
	for i := range g.reviewerIDs {
		g.reviewerIDs[i] = fmt.Sprintf("~Reviewer_%04d", i+1)
		g.archetypes[i] = i % archetypeCount
	}
	return g
}

// WriteTo streams the whole dataset as NDJSON.
func (g *Generator) WriteTo(w io.Writer) (int, error) {
	enc := json.NewEncoder(w)
	for n := 1; n <= g.cfg.Submissions; n++ {
		if err := enc.Encode(g.submission(n)); err != nil {
			return n - 1, fmt.Errorf("write record %d: %w", n, err)
		}
	}
	return g.cfg.Submissions, nil
}

func (g *Generator) submission(n int) model.Submission {
	reviews := make([]model.Review, 0, g.cfg.ReviewsPerSub)
	for i := 0; i < g.cfg.ReviewsPerSub; i++ {
		idx := g.rng.Intn(len(g.reviewerIDs))
		reviews = append(reviews, g.review(idx))
	}
	return model.Submission{SubmissionNumber: n, Reviews: reviews}
}

func (g *Generator) review(idx int) model.Review {
	arch := g.archetypes[idx]
	rating := g.rating(arch)

	var ratingValue any = rating
	if g.rng.Float64() < g.cfg.StringRatingsRatio {
		ratingValue = fmt.Sprintf("%g (generated)", rating)
	}

	textWords := 300 + g.rng.Intn(300)
	questionWords := 20 + g.rng.Intn(40)
	switch arch {
	case archetypeWordy:
		textWords = 1200 + g.rng.Intn(800)
	case archetypeInquisitive:
		questionWords = 200 + g.rng.Intn(200)
	}

	return model.Review{
		ReviewID:           uuid.New().String(),
		ReviewerID:         g.reviewerIDs[idx],
		ReviewerProfileURL: "https://openreview.net/profile?id=" + g.reviewerIDs[idx],
		Rating:             ratingValue,
		Confidence:         float64(1 + g.rng.Intn(5)),
		TotalTextWords:     textWords,
		QuestionsWords:     questionWords,
		HasEthicsFlag:      g.rng.Float64() < 0.01,
	}
}

func (g *Generator) rating(arch int) float64 {
	switch arch {
	case archetypeLenient:
		return float64(7 + g.rng.Intn(4)) // 7..10
	case archetypeStrict:
		return float64(1 + g.rng.Intn(4)) // 1..4
	case archetypeVolatile:
		return float64(1 + g.rng.Intn(10)) // 1..10
	case archetypeSteady:
		return float64(5 + g.rng.Intn(2)) // 5..6
	default:
		return float64(3 + g.rng.Intn(6)) // 3..8
	}
}
