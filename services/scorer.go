package services

import (
	"fmt"
	"strings"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

// ScoringConfig carries every tunable the scorer uses. Passed in explicitly
// so scoring runs are reproducible and independently testable; there is no
// ambient state.
type ScoringConfig struct {
	BudgetWeight      float64
	RatingWeight      float64
	PreferenceWeight  float64
	SourceTrustWeight float64

	// OverBudgetTolerance is the fraction above budget at which the budget
	// contribution reaches zero (0.20 → zero at 120% of budget).
	OverBudgetTolerance float64
	// UnderBudgetReward shapes how strongly being under budget is rewarded:
	// at price == budget the contribution is (1-UnderBudgetReward) of the
	// budget weight, growing toward the full weight as price approaches zero.
	UnderBudgetReward float64
	// ReviewSaturation is the review count at which a rating is considered
	// fully trustworthy; fewer reviews scale the rating contribution down.
	ReviewSaturation int

	SourceTrust        map[string]float64
	DefaultSourceTrust float64
}

// DefaultScoringConfig returns the stock weights and heuristics.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BudgetWeight:        0.35,
		RatingWeight:        0.30,
		PreferenceWeight:    0.25,
		SourceTrustWeight:   0.10,
		OverBudgetTolerance: 0.20,
		UnderBudgetReward:   0.30,
		ReviewSaturation:    50,
		SourceTrust: map[string]float64{
			"amazon":   1.0,
			"flipkart": 0.9,
		},
		DefaultSourceTrust: 0.4,
	}
}

// Scorer computes composite match scores for normalized listings. Identical
// inputs always produce identical scores.
type Scorer struct {
	cfg    ScoringConfig
	logger *utils.Logger
}

// NewScorer creates a Scorer with the given configuration.
func NewScorer(cfg ScoringConfig, logger *utils.Logger) *Scorer {
	return &Scorer{cfg: cfg, logger: logger}
}

// Score evaluates one listing against a budget and preference terms. The
// returned breakdown records every criterion in fixed order, including the
// zero-contribution ones, so explanations can account for the whole score.
func (s *Scorer) Score(listing *models.NormalizedListing, budget float64, preferences []string) *models.ScoredListing {
	wBudget := s.cfg.BudgetWeight
	wRating := s.cfg.RatingWeight
	wPref := s.cfg.PreferenceWeight
	wSource := s.cfg.SourceTrustWeight

	// With no preferences the criterion is excluded and its weight is
	// redistributed proportionally, keeping totals comparable in [0,1].
	if len(preferences) == 0 {
		scale := 1 / (1 - wPref)
		wBudget *= scale
		wRating *= scale
		wSource *= scale
		wPref = 0
	}

	budgetScore, overBudget := s.scoreBudgetFit(listing, budget, wBudget)
	ratingScore := s.scoreRatingQuality(listing, wRating)
	prefScore, matched := s.scorePreferenceMatch(listing, preferences, wPref)
	sourceScore := s.scoreSourceTrust(listing, wSource)

	total := budgetScore.Contribution + ratingScore.Contribution +
		prefScore.Contribution + sourceScore.Contribution
	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}

	s.logger.Debug("[scorer] %q → %.4f (budget %.4f, rating %.4f, prefs %.4f, source %.4f)",
		listing.Title, total, budgetScore.Contribution, ratingScore.Contribution,
		prefScore.Contribution, sourceScore.Contribution)

	return &models.ScoredListing{
		Listing:            listing,
		Score:              total,
		Breakdown:          []models.CriterionScore{budgetScore, ratingScore, prefScore, sourceScore},
		MatchedPreferences: matched,
		OverBudget:         overBudget,
	}
}

func (s *Scorer) scoreBudgetFit(l *models.NormalizedListing, budget, weight float64) (models.CriterionScore, bool) {
	cs := models.CriterionScore{Criterion: models.CriterionBudgetFit, Weight: weight}

	if !l.Price.Known {
		cs.Rationale = "unverified price"
		return cs, false
	}

	price := l.Price.Value
	if price <= budget {
		cs.Contribution = weight * (1 - (price/budget)*s.cfg.UnderBudgetReward)
		cs.Rationale = "within budget"
		return cs, false
	}

	// Decay from the at-budget value down to zero at budget*(1+tolerance),
	// keeping the curve continuous and monotone across the boundary.
	overRatio := (price - budget) / (budget * s.cfg.OverBudgetTolerance)
	atBudget := weight * (1 - s.cfg.UnderBudgetReward)
	contribution := atBudget * (1 - overRatio)
	if contribution < 0 {
		contribution = 0
	}
	cs.Contribution = contribution
	cs.Rationale = fmt.Sprintf("over budget by %.1f%%", (price-budget)/budget*100)
	return cs, true
}

func (s *Scorer) scoreRatingQuality(l *models.NormalizedListing, weight float64) models.CriterionScore {
	cs := models.CriterionScore{Criterion: models.CriterionRatingQuality, Weight: weight}

	if !l.Rating.Known {
		cs.Rationale = "no rating data"
		return cs
	}

	contribution := (l.Rating.Value / 5) * weight
	if l.ReviewCount.Known {
		// A 5-star rating from a handful of reviews is worth less than a
		// slightly lower rating backed by hundreds.
		penalty := float64(l.ReviewCount.Value) / float64(s.cfg.ReviewSaturation)
		if penalty > 1 {
			penalty = 1
		}
		contribution *= penalty
		cs.Rationale = fmt.Sprintf("rating %.1f/5 from %d reviews", l.Rating.Value, l.ReviewCount.Value)
	} else {
		// Unknown review count gets the benefit of the doubt: no penalty.
		cs.Rationale = fmt.Sprintf("rating %.1f/5, review count unknown", l.Rating.Value)
	}
	cs.Contribution = contribution
	return cs
}

func (s *Scorer) scorePreferenceMatch(l *models.NormalizedListing, preferences []string, weight float64) (models.CriterionScore, []string) {
	cs := models.CriterionScore{Criterion: models.CriterionPreferenceMatch, Weight: weight}

	if len(preferences) == 0 {
		cs.Rationale = "no preferences supplied"
		return cs, nil
	}

	haystack := strings.ToLower(l.Title + " " + strings.Join(l.Features, " "))
	var matched []string
	for _, pref := range preferences {
		if preferenceMatches(haystack, pref) {
			matched = append(matched, pref)
		}
	}

	cs.Contribution = weight * float64(len(matched)) / float64(len(preferences))
	cs.Rationale = fmt.Sprintf("matched %d/%d preferences", len(matched), len(preferences))
	return cs, matched
}

// preferenceMatches reports whether a preference term is satisfied by the
// listing text: either the whole term appears as a substring, or at least
// half of a multi-word term's words do.
func preferenceMatches(haystack, pref string) bool {
	term := strings.ToLower(strings.TrimSpace(pref))
	if term == "" {
		return false
	}
	if strings.Contains(haystack, term) {
		return true
	}
	words := strings.Fields(term)
	if len(words) < 2 {
		return false
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			hits++
		}
	}
	return hits*2 >= len(words)
}

func (s *Scorer) scoreSourceTrust(l *models.NormalizedListing, weight float64) models.CriterionScore {
	cs := models.CriterionScore{Criterion: models.CriterionSourceTrust, Weight: weight}

	prior, ok := s.cfg.SourceTrust[l.Source]
	if !ok {
		prior = s.cfg.DefaultSourceTrust
		cs.Rationale = fmt.Sprintf("unrecognized source %q, prior %.2f", l.Source, prior)
	} else {
		cs.Rationale = fmt.Sprintf("source %s, prior %.2f", l.Source, prior)
	}
	cs.Contribution = weight * prior
	return cs
}
