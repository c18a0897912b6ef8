package services

import (
	"math"
	"sort"
	"strings"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

// InsightSelector picks the forum posts most worth showing next to a product:
// well-engaged posts whose sentiment is representative of the pool rather
// than the loudest outliers.
type InsightSelector struct {
	logger *utils.Logger
}

// NewInsightSelector creates an InsightSelector.
func NewInsightSelector(logger *utils.Logger) *InsightSelector {
	return &InsightSelector{logger: logger}
}

// Select filters and orders posts for one product and truncates to maxCount.
// Posts without a derivable rating are dropped. If any rated posts mention
// the product directly, selection is restricted to those; otherwise the whole
// rated pool stays eligible. An empty pool selects to an empty sequence,
// never an error.
func (s *InsightSelector) Select(posts []*models.ForumPost, product *models.NormalizedListing, maxCount int) []*models.ForumPost {
	rated := make([]*models.ForumPost, 0, len(posts))
	for _, p := range posts {
		if p.Rating.Known {
			rated = append(rated, p)
		}
	}
	if len(rated) == 0 {
		return nil
	}

	pool := rated
	if product != nil && product.Title != "" {
		var mentioning []*models.ForumPost
		for _, p := range rated {
			if mentionsProduct(p, product.Title) {
				mentioning = append(mentioning, p)
			}
		}
		if len(mentioning) > 0 {
			pool = mentioning
		}
	}

	// Prefer posts near the pool's median rating so the evidence reflects
	// the overall sentiment spread, not just 1-star and 5-star extremes.
	median := medianRating(pool)

	ordered := make([]*models.ForumPost, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Upvotes != b.Upvotes {
			return a.Upvotes > b.Upvotes
		}
		da := math.Abs(a.Rating.Value - median)
		db := math.Abs(b.Rating.Value - median)
		return da < db
	})

	if maxCount >= 0 && len(ordered) > maxCount {
		ordered = ordered[:maxCount]
	}

	s.logger.Debug("[forum] Selected %d/%d posts for %q (median rating %.2f)",
		len(ordered), len(posts), titleOrQuery(product), median)
	return ordered
}

// mentionsProduct reports whether a post plausibly discusses the product:
// the full title appears in the post text, or at least two title words do.
func mentionsProduct(p *models.ForumPost, title string) bool {
	text := strings.ToLower(p.Title + " " + p.Excerpt)
	t := strings.ToLower(title)
	if strings.Contains(text, t) {
		return true
	}
	words := strings.Fields(t)
	if len(words) < 2 {
		return false
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

func medianRating(pool []*models.ForumPost) float64 {
	ratings := make([]float64, 0, len(pool))
	for _, p := range pool {
		ratings = append(ratings, p.Rating.Value)
	}
	sort.Float64s(ratings)

	n := len(ratings)
	if n%2 == 1 {
		return ratings[n/2]
	}
	return (ratings[n/2-1] + ratings[n/2]) / 2
}

func titleOrQuery(product *models.NormalizedListing) string {
	if product == nil {
		return ""
	}
	return product.Title
}
