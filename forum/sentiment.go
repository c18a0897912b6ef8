package forum

import (
	"strings"

	"shopping-assistant/models"
)

// SentimentScorer estimates a 1-5 star rating from free text. Implementations
// return an unknown rating when the text carries no usable signal.
type SentimentScorer interface {
	Estimate(text string) models.OptFloat
}

// KeywordScorer scores text by counting opinion-bearing words. Crude but
// stable: the same text always yields the same rating.
type KeywordScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "awesome", "love", "best",
	"perfect", "recommend", "recommended", "solid", "reliable", "happy",
	"worth", "fantastic", "impressed", "smooth", "fast", "durable",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "worst", "hate", "avoid", "broke",
	"broken", "disappointing", "disappointed", "regret", "poor", "slow",
	"cheap", "overpriced", "faulty", "refund", "returned", "issue", "issues",
}

// NewKeywordScorer creates a KeywordScorer with the built-in word lists.
func NewKeywordScorer() *KeywordScorer {
	s := &KeywordScorer{
		positive: make(map[string]struct{}, len(positiveWords)),
		negative: make(map[string]struct{}, len(negativeWords)),
	}
	for _, w := range positiveWords {
		s.positive[w] = struct{}{}
	}
	for _, w := range negativeWords {
		s.negative[w] = struct{}{}
	}
	return s
}

// Estimate maps the positive/negative word balance onto a 1-5 scale centred
// at 3. Text with no opinion words yields an unknown rating rather than a
// fake neutral one.
func (s *KeywordScorer) Estimate(text string) models.OptFloat {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	pos, neg := 0, 0
	for _, w := range words {
		if _, ok := s.positive[w]; ok {
			pos++
		}
		if _, ok := s.negative[w]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return models.UnknownFloat()
	}

	balance := float64(pos-neg) / float64(total) // -1..1
	rating := 3 + balance*2
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return models.KnownFloat(rating)
}
