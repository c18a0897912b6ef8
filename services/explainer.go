package services

import (
	"fmt"
	"strconv"
	"strings"

	"shopping-assistant/models"
)

// Explainer turns a score breakdown into a short natural-language
// justification. Every sentence is template-driven, so identical inputs
// render byte-identical explanations. Sentence order is fixed: budget →
// rating/reviews → preference matches → source.
type Explainer struct{}

// NewExplainer creates an Explainer.
func NewExplainer() *Explainer {
	return &Explainer{}
}

// Explain renders the justification for one scored listing.
func (e *Explainer) Explain(scored *models.ScoredListing, budget float64) string {
	l := scored.Listing
	var sentences []string

	if s := e.budgetSentence(scored, budget); s != "" {
		sentences = append(sentences, s)
	}
	if s := e.ratingSentence(l); s != "" {
		sentences = append(sentences, s)
	}
	if s := e.preferenceSentence(scored.MatchedPreferences); s != "" {
		sentences = append(sentences, s)
	}
	if l.Source != "" {
		sentences = append(sentences, fmt.Sprintf("Available on %s.", titleCase(l.Source)))
	}

	return strings.Join(sentences, " ")
}

func (e *Explainer) budgetSentence(scored *models.ScoredListing, budget float64) string {
	l := scored.Listing
	if !l.Price.Known {
		return "Price could not be verified against your budget."
	}
	if !scored.OverBudget {
		return fmt.Sprintf("Within your budget of ₹%s.", plainAmount(budget))
	}
	overBy := l.Price.Value - budget
	overPct := overBy / budget * 100
	return fmt.Sprintf("Over budget by ₹%s (%.1f%%).", plainAmount(overBy), overPct)
}

func (e *Explainer) ratingSentence(l *models.NormalizedListing) string {
	if !l.Rating.Known {
		return ""
	}
	if l.ReviewCount.Known {
		return fmt.Sprintf("Rated %s stars across %d reviews.",
			plainAmount(l.Rating.Value), l.ReviewCount.Value)
	}
	return fmt.Sprintf("Rated %s stars.", plainAmount(l.Rating.Value))
}

func (e *Explainer) preferenceSentence(matched []string) string {
	switch len(matched) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Matches your preference for %s.", matched[0])
	default:
		head := strings.Join(matched[:len(matched)-1], ", ")
		return fmt.Sprintf("Matches your preferences for %s and %s.", head, matched[len(matched)-1])
	}
}

// plainAmount renders a number without grouping or trailing zeros
// (50000 → "50000", 4.3 → "4.3").
func plainAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
