package services

import (
	"fmt"
	"strings"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

// Formatter renders recommendations for the terminal. Rendering is the
// caller's side of the contract; the engine only prescribes the record shape.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Print writes the full recommendation report to stdout.
func (f *Formatter) Print(query string, budget float64, recommendations []*models.Recommendation) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🛒 SHOPPING ASSISTANT — %s\033[0m\n", strings.ToUpper(query))
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("  Budget: \033[1m%s\033[0m\n\n", utils.FormatINR(budget))

	if len(recommendations) == 0 {
		fmt.Printf("  No recommendations found matching your criteria.\n")
		fmt.Printf("  Try a different search term, or consider raising your budget.\n\n")
		fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	for _, rec := range recommendations {
		l := rec.Scored.Listing

		marker := ""
		if rec.Fallback {
			marker = " \033[33m(over budget — best available)\033[0m"
		}
		fmt.Printf("\033[1;33m  Option %d: %s%s\033[0m\n", rec.Rank, truncate(l.Title, 48), marker)
		fmt.Printf("  %s\n", thin)

		fmt.Printf("  Price    : \033[1;32m%s\033[0m\n", priceText(l.Price))
		fmt.Printf("  Reviews  : %s\n", reviewEvidence(l))
		if len(l.Features) > 0 {
			fmt.Printf("  Features : %s\n", truncate(strings.Join(l.Features, ", "), 52))
		}
		fmt.Printf("  Score    : \033[1m%.2f\033[0m\n", rec.Scored.Score)
		fmt.Printf("  Why      : %s\n", rec.Explanation)

		for _, p := range rec.Insights {
			fmt.Printf("  \033[36mr/%s\033[0m (%d↑, %.1f★): %s\n",
				p.Subreddit, p.Upvotes, p.Rating.Value, truncate(p.Excerpt, 46))
		}
		if l.URL != "" {
			fmt.Printf("  Link     : %s\n", l.URL)
		}
		fmt.Println()
	}

	top := recommendations[0].Scored.Listing
	fmt.Printf("  Summary: Based on your requirements, \033[1m%s\033[0m appears to be\n", truncate(top.Title, 44))
	fmt.Printf("  the best match, balancing features, price and reviews.\n")

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func priceText(p models.OptFloat) string {
	if !p.Known {
		return "not listed"
	}
	return utils.FormatINR(p.Value)
}

func reviewEvidence(l *models.NormalizedListing) string {
	switch {
	case l.Rating.Known && l.ReviewCount.Known:
		return fmt.Sprintf("%.1f ★ from %d reviews", l.Rating.Value, l.ReviewCount.Value)
	case l.Rating.Known:
		return fmt.Sprintf("%.1f ★", l.Rating.Value)
	default:
		return "no rating data"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
