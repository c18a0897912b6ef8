package services

import (
	"errors"
	"regexp"
	"strings"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

// Configuration errors, rejected before any scoring begins.
var (
	ErrInvalidQuery       = errors.New("query must be at least 2 characters")
	ErrInvalidBudget      = errors.New("budget must be greater than zero")
	ErrInvalidLimit       = errors.New("result limit must be greater than zero")
	ErrInvalidPreferences = errors.New("preference set contains no usable terms")
)

var nonWordRegexp = regexp.MustCompile(`[^\w\s]`)

// Recommender runs the full pipeline: normalize → score → rank → select
// insights → explain. It only ever sees finalized input snapshots; fetching
// and its partial failures are the collector's problem.
type Recommender struct {
	normalizer *Normalizer
	scorer     *Scorer
	ranker     *Ranker
	selector   *InsightSelector
	explainer  *Explainer

	insightsPerProduct int
	logger             *utils.Logger
}

// NewRecommender wires the pipeline components from one scoring config.
func NewRecommender(cfg ScoringConfig, minScore float64, insightsPerProduct int, logger *utils.Logger) *Recommender {
	return &Recommender{
		normalizer:         NewNormalizer(logger),
		scorer:             NewScorer(cfg, logger),
		ranker:             NewRanker(minScore, logger),
		selector:           NewInsightSelector(logger),
		explainer:          NewExplainer(),
		insightsPerProduct: insightsPerProduct,
		logger:             logger,
	}
}

// Recommend produces the final ordered recommendation list for one query.
// An empty listing snapshot yields an empty list, not an error; invalid
// configuration (budget, limit, preferences) is rejected up front.
func (r *Recommender) Recommend(
	query string,
	budget float64,
	preferences []string,
	rawListings []*models.RawListing,
	rawPosts []*models.ForumPost,
	limit int,
) ([]*models.Recommendation, error) {
	query = SanitizeQuery(query)
	if len(query) < 2 {
		return nil, ErrInvalidQuery
	}
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	prefs, err := SanitizePreferences(preferences)
	if err != nil {
		return nil, err
	}

	if len(rawListings) == 0 {
		r.logger.Warn("[recommender] No listings collected for %q — empty result", query)
		return []*models.Recommendation{}, nil
	}

	r.logger.Info("[recommender] %q — budget %.0f, %d preferences, %d raw listings, %d forum posts",
		query, budget, len(prefs), len(rawListings), len(rawPosts))

	normalized := r.normalizer.NormalizeAll(rawListings)

	scored := make([]*models.ScoredListing, 0, len(normalized))
	for _, l := range normalized {
		scored = append(scored, r.scorer.Score(l, budget, prefs))
	}

	ranked := r.ranker.Rank(scored, limit)

	recommendations := make([]*models.Recommendation, 0, len(ranked))
	for i, s := range ranked {
		recommendations = append(recommendations, &models.Recommendation{
			Rank:        i + 1,
			Scored:      s,
			Insights:    r.selector.Select(rawPosts, s.Listing, r.insightsPerProduct),
			Explanation: r.explainer.Explain(s, budget),
			Fallback:    s.OverBudget,
		})
	}

	r.logger.Info("[recommender] Generated %d recommendations for %q", len(recommendations), query)
	return recommendations, nil
}

// SanitizeQuery strips special characters and collapses whitespace.
func SanitizeQuery(query string) string {
	return normaliseText(nonWordRegexp.ReplaceAllString(query, " "))
}

// SanitizePreferences trims terms, drops empties and deduplicates
// case-insensitively, preserving first-seen order. A non-empty input that
// sanitizes to nothing is malformed configuration.
func SanitizePreferences(preferences []string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(preferences))
	for _, p := range preferences {
		term := normaliseText(p)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}
	if len(preferences) > 0 && len(out) == 0 {
		return nil, ErrInvalidPreferences
	}
	return out, nil
}
