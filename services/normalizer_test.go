package services

import (
	"reflect"
	"testing"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerWithLevel(utils.LevelError) }

func TestNormalizerParsePrice(t *testing.T) {
	tests := []struct {
		raw       string
		want      float64
		wantKnown bool
	}{
		{"₹49,990", 49990, true},
		{"₹1,04,999.00", 104999, true},
		{"$120", 120, true},
		{"Rs. 999", 999, true},
		{"", 0, false},
		{"Currently unavailable", 0, false},
		{"free", 0, false},
	}

	for _, tt := range tests {
		got := parsePrice(tt.raw)
		if got.Known != tt.wantKnown {
			t.Errorf("parsePrice(%q).Known = %v; want %v", tt.raw, got.Known, tt.wantKnown)
			continue
		}
		if got.Known && got.Value != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got.Value, tt.want)
		}
	}
}

func TestNormalizerParseRating(t *testing.T) {
	tests := []struct {
		raw       string
		want      float64
		wantKnown bool
	}{
		{"4.3 out of 5 stars", 4.3, true},
		{"4.85", 4.85, true},
		{"5.0", 5.0, true},
		{"3.5 (120 reviews)", 3.5, true},
		{"", 0, false},
		{"New", 0, false},
		{"6.0", 0, false},
	}

	for _, tt := range tests {
		got := parseRating(tt.raw)
		if got.Known != tt.wantKnown {
			t.Errorf("parseRating(%q).Known = %v; want %v", tt.raw, got.Known, tt.wantKnown)
			continue
		}
		if got.Known && got.Value != tt.want {
			t.Errorf("parseRating(%q) = %.2f; want %.2f", tt.raw, got.Value, tt.want)
		}
	}
}

func TestNormalizerParseReviewCount(t *testing.T) {
	tests := []struct {
		raw       string
		want      int
		wantKnown bool
	}{
		{"1,245 ratings", 1245, true},
		{"87", 87, true},
		{"", 0, false},
		{"No reviews yet", 0, false},
		{"4.3", 0, false},
	}

	for _, tt := range tests {
		got := parseReviewCount(tt.raw)
		if got.Known != tt.wantKnown {
			t.Errorf("parseReviewCount(%q).Known = %v; want %v", tt.raw, got.Known, tt.wantKnown)
			continue
		}
		if got.Known && got.Value != tt.want {
			t.Errorf("parseReviewCount(%q) = %d; want %d", tt.raw, got.Value, tt.want)
		}
	}
}

func TestNormalizerSplitFeatures(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"gaming/NVIDIA GTX 1650, 8GB RAM | backlit keyboard", []string{"gaming", "NVIDIA GTX 1650", "8GB RAM", "backlit keyboard"}},
		{"Gaming, gaming, GAMING", []string{"Gaming"}},
		{"  , / | ", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitFeatures(tt.raw)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFeatures(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeNeverDrops(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawListing{
		Title:      "  Mystery   Gadget ",
		RawPrice:   "call for price",
		RawRating:  "unrated",
		RawReviews: "n/a",
		Platform:   " Amazon ",
	}

	l := n.Normalize(raw)
	if l.Title != "Mystery Gadget" {
		t.Errorf("title: got %q", l.Title)
	}
	if l.Price.Known || l.Rating.Known || l.ReviewCount.Known {
		t.Errorf("malformed numeric fields must normalize to unknown: %+v", l)
	}
	if l.Source != "amazon" {
		t.Errorf("source: got %q, want amazon", l.Source)
	}
}

func TestNormalizeAllDeduplicatesByURL(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := []*models.RawListing{
		{Title: "A", URL: "https://www.amazon.in/dp/1", Platform: "amazon"},
		{Title: "B", URL: "https://www.amazon.in/dp/1", Platform: "amazon"},
		{Title: "No URL", Platform: "flipkart"},
	}

	got := n.NormalizeAll(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 listings after dedupe, got %d", len(got))
	}
	if got[0].Title != "A" {
		t.Errorf("first occurrence should win, got %q", got[0].Title)
	}
	if got[1].Title != "No URL" {
		t.Errorf("listing without URL must be kept, got %q", got[1].Title)
	}
}
