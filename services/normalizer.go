package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

var (
	// numberRegexp captures the first numeric value in a price or count string
	numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// ratingRegexp captures a numeric rating in the 0.0–5.0 range
	ratingRegexp = regexp.MustCompile(`\b([0-5](?:\.\d{1,2})?)\b`)
	// featureSplitRegexp splits raw feature text on slash, comma and pipe
	featureSplitRegexp = regexp.MustCompile(`[/,|]`)
)

// Normalizer coerces RawListings into the engine's fixed schema. It never
// fails on malformed input: any field that cannot be parsed becomes an
// explicit unknown.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts one raw listing. Pure over its input; the raw record is
// not touched.
func (n *Normalizer) Normalize(raw *models.RawListing) *models.NormalizedListing {
	return &models.NormalizedListing{
		Title:       normaliseText(raw.Title),
		Price:       parsePrice(raw.RawPrice),
		Rating:      parseRating(raw.RawRating),
		ReviewCount: parseReviewCount(raw.RawReviews),
		Source:      normaliseSource(raw.Platform),
		Features:    splitFeatures(raw.FeatureText),
		URL:         strings.TrimSpace(raw.URL),
	}
}

// NormalizeAll converts a batch, deduplicating by URL (first occurrence
// wins). Listings without a URL are kept: absence of a link is not grounds
// for a silent drop, it only costs the caller a clickable result.
func (n *Normalizer) NormalizeAll(raw []*models.RawListing) []*models.NormalizedListing {
	seen := make(map[string]struct{})
	result := make([]*models.NormalizedListing, 0, len(raw))

	dropped := 0
	for _, r := range raw {
		l := n.Normalize(r)
		if l.URL != "" {
			if _, dup := seen[l.URL]; dup {
				n.logger.Debug("[normalizer] Duplicate URL skipped: %s", l.URL)
				dropped++
				continue
			}
			seen[l.URL] = struct{}{}
		}
		result = append(result, l)
	}

	n.logger.Info("[normalizer] Normalized %d → %d listings (deduplicated %d)",
		len(raw), len(result), dropped)
	return result
}

// parsePrice strips currency symbols and thousands separators and extracts
// the first numeric value. No digits → unknown.
func parsePrice(raw string) models.OptFloat {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := numberRegexp.FindString(cleaned)
	if match == "" {
		return models.UnknownFloat()
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil || val < 0 {
		return models.UnknownFloat()
	}
	return models.KnownFloat(val)
}

// parseRating extracts a 0.0–5.0 rating. Out-of-range or absent → unknown.
func parseRating(raw string) models.OptFloat {
	match := ratingRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return models.UnknownFloat()
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil || val < 0 || val > 5 {
		return models.UnknownFloat()
	}
	return models.KnownFloat(val)
}

// parseReviewCount extracts a non-negative integer review count.
func parseReviewCount(raw string) models.OptInt {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := numberRegexp.FindString(cleaned)
	if match == "" {
		return models.UnknownInt()
	}
	// A fractional review count is malformed input, not a count.
	if strings.Contains(match, ".") {
		return models.UnknownInt()
	}
	val, err := strconv.Atoi(match)
	if err != nil || val < 0 {
		return models.UnknownInt()
	}
	return models.KnownInt(val)
}

// splitFeatures breaks raw free-text on common delimiters into an ordered,
// case-insensitively deduplicated feature list.
func splitFeatures(raw string) []string {
	parts := featureSplitRegexp.Split(raw, -1)
	seen := make(map[string]struct{})
	features := make([]string, 0, len(parts))

	for _, p := range parts {
		f := normaliseText(p)
		if f == "" {
			continue
		}
		key := strings.ToLower(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		features = append(features, f)
	}
	return features
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

func normaliseSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
