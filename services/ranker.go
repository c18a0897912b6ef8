package services

import (
	"sort"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

// Ranker orders scored listings and applies the result-count cap. Over-budget
// listings are never discarded outright; they are demoted below every
// within-budget listing so they only surface when too few affordable
// candidates exist.
type Ranker struct {
	// MinScore is the floor below which listings are excluded. Exclusions
	// are always logged; nothing leaves the pool silently.
	MinScore float64
	logger   *utils.Logger
}

// NewRanker creates a Ranker with the given score floor.
func NewRanker(minScore float64, logger *utils.Logger) *Ranker {
	return &Ranker{MinScore: minScore, logger: logger}
}

// Rank returns a new, ordered slice of at most limit listings. The input is
// not modified. Ordering: within-budget before over-budget, then score
// descending, then review count descending (unknown last), then price
// ascending (unknown last), then input order.
func (r *Ranker) Rank(scored []*models.ScoredListing, limit int) []*models.ScoredListing {
	if len(scored) == 0 {
		return nil
	}

	pool := make([]*models.ScoredListing, 0, len(scored))
	for _, s := range scored {
		if s.Score < r.MinScore {
			r.logger.Info("[ranker] Excluding %q: score %.4f below floor %.4f",
				s.Listing.Title, s.Score, r.MinScore)
			continue
		}
		pool = append(pool, s)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]

		if a.OverBudget != b.OverBudget {
			return !a.OverBudget
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := a.Listing.ReviewCount.OrWorstCount(), b.Listing.ReviewCount.OrWorstCount()
		if ra != rb {
			return ra > rb
		}
		pa, pb := a.Listing.Price.OrWorstPrice(), b.Listing.Price.OrWorstPrice()
		return pa < pb
	})

	if limit > 0 && len(pool) > limit {
		for _, cut := range pool[limit:] {
			r.logger.Debug("[ranker] Cut %q at result cap %d (score %.4f)",
				cut.Listing.Title, limit, cut.Score)
		}
		pool = pool[:limit]
	}

	return pool
}
