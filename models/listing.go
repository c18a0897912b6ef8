package models

import "time"

// RawListing holds a best-effort product record exactly as a source handed it
// over. Numeric fields are kept as raw strings because marketplaces render
// them in arbitrary formats ("₹49,990", "4.3 out of 5 stars", "1,245 ratings").
// Records are owned by the collector that fetched them and never mutated.
type RawListing struct {
	Title       string
	RawPrice    string
	RawRating   string
	RawReviews  string
	Platform    string
	FeatureText string
	URL         string
	ScrapedAt   time.Time
}

// NormalizedListing is a RawListing coerced into the engine's fixed schema.
// Every field is either a valid typed value or an explicit unknown; creation
// never fails and the struct is never mutated afterwards.
type NormalizedListing struct {
	Title       string
	Price       OptFloat
	Rating      OptFloat
	ReviewCount OptInt
	Source      string
	Features    []string
	URL         string
}

// ForumPost is a discussion-thread excerpt with a sentiment rating already
// estimated upstream. Posts live for a single search session.
type ForumPost struct {
	Subreddit string
	Title     string
	Excerpt   string
	Rating    OptFloat
	Upvotes   int
	Query     string
	URL       string
	Author    string
	PostedAt  time.Time
}

// Criterion names, in the fixed order score breakdowns are recorded and
// explanations are rendered.
const (
	CriterionBudgetFit       = "budget_fit"
	CriterionRatingQuality   = "rating_quality"
	CriterionPreferenceMatch = "preference_match"
	CriterionSourceTrust     = "source_trust"
)

// CriterionScore is one criterion's weighted contribution to a listing's
// score. Rationale is a terse machine tag; prose is the explainer's job.
type CriterionScore struct {
	Criterion    string
	Weight       float64
	Contribution float64
	Rationale    string
}

// ScoredListing wraps a NormalizedListing with its composite score. Produced
// once by the scorer and treated as immutable by everything downstream.
type ScoredListing struct {
	Listing            *NormalizedListing
	Score              float64
	Breakdown          []CriterionScore
	MatchedPreferences []string
	OverBudget         bool
}

// BreakdownFor returns the breakdown entry for the named criterion, or nil.
func (s *ScoredListing) BreakdownFor(criterion string) *CriterionScore {
	for i := range s.Breakdown {
		if s.Breakdown[i].Criterion == criterion {
			return &s.Breakdown[i]
		}
	}
	return nil
}

// Recommendation is the final output unit: a ranked scored listing plus its
// supporting forum evidence and a generated explanation.
type Recommendation struct {
	Rank        int
	Scored      *ScoredListing
	Insights    []*ForumPost
	Explanation string
	// Fallback marks an over-budget listing surfaced only because too few
	// within-budget candidates existed.
	Fallback bool
}

// RecommendationRecord is the plain serializable shape callers render as
// text, JSON or HTML. Unknown numeric fields serialize as null.
type RecommendationRecord struct {
	Rank               int      `json:"rank"`
	Title              string   `json:"title"`
	Price              *float64 `json:"price"`
	Rating             *float64 `json:"rating"`
	ReviewCount        *int     `json:"review_count"`
	Source             string   `json:"source"`
	URL                string   `json:"url"`
	Score              float64  `json:"score"`
	MatchedPreferences []string `json:"matched_preferences"`
	Explanation        string   `json:"explanation"`
	ForumExcerpts      []string `json:"forum_excerpts"`
	Fallback           bool     `json:"fallback"`
}

// Record flattens the recommendation into its serializable form.
func (r *Recommendation) Record() RecommendationRecord {
	l := r.Scored.Listing

	rec := RecommendationRecord{
		Rank:               r.Rank,
		Title:              l.Title,
		Source:             l.Source,
		URL:                l.URL,
		Score:              r.Scored.Score,
		MatchedPreferences: append([]string(nil), r.Scored.MatchedPreferences...),
		Explanation:        r.Explanation,
		Fallback:           r.Fallback,
	}
	if l.Price.Known {
		v := l.Price.Value
		rec.Price = &v
	}
	if l.Rating.Known {
		v := l.Rating.Value
		rec.Rating = &v
	}
	if l.ReviewCount.Known {
		v := l.ReviewCount.Value
		rec.ReviewCount = &v
	}
	rec.ForumExcerpts = make([]string, 0, len(r.Insights))
	for _, p := range r.Insights {
		rec.ForumExcerpts = append(rec.ForumExcerpts, p.Excerpt)
	}
	return rec
}
