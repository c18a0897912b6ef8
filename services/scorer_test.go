package services

import (
	"math"
	"reflect"
	"testing"

	"shopping-assistant/models"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultScoringConfig(), newTestLogger())
}

func asusListing() *models.NormalizedListing {
	return &models.NormalizedListing{
		Title:       "ASUS TUF Gaming F15",
		Price:       models.KnownFloat(49990),
		Rating:      models.KnownFloat(4.3),
		ReviewCount: models.KnownInt(1245),
		Source:      "flipkart",
		Features:    []string{"gaming", "NVIDIA GTX 1650"},
		URL:         "https://www.flipkart.com/asus-tuf-gaming-f15",
	}
}

func TestScoreAsusScenario(t *testing.T) {
	s := newTestScorer()
	scored := s.Score(asusListing(), 50000, []string{"gaming", "lightweight"})

	if !reflect.DeepEqual(scored.MatchedPreferences, []string{"gaming"}) {
		t.Errorf("matched preferences: got %v, want [gaming]", scored.MatchedPreferences)
	}
	if scored.OverBudget {
		t.Error("49990 against a 50000 budget must not be flagged over budget")
	}

	budget := scored.BreakdownFor(models.CriterionBudgetFit)
	if budget == nil {
		t.Fatal("missing budget_fit breakdown entry")
	}
	// 0.35 * (1 - 0.3*49990/50000)
	want := 0.35 * (1 - 0.3*49990.0/50000.0)
	if math.Abs(budget.Contribution-want) > 1e-9 {
		t.Errorf("budget contribution: got %.6f, want %.6f", budget.Contribution, want)
	}
	if budget.Rationale != "within budget" {
		t.Errorf("budget rationale: got %q", budget.Rationale)
	}
}

func TestScoreBounds(t *testing.T) {
	s := newTestScorer()
	listings := []*models.NormalizedListing{
		asusListing(),
		{Title: "Bare", Source: "unknownmart"},
		{Title: "Cheap 5-star", Price: models.KnownFloat(1), Rating: models.KnownFloat(5),
			ReviewCount: models.KnownInt(100000), Source: "amazon"},
		{Title: "Way over", Price: models.KnownFloat(200000), Source: "flipkart"},
	}

	for _, l := range listings {
		for _, prefs := range [][]string{nil, {"gaming"}, {"cheap", "5-star"}} {
			scored := s.Score(l, 50000, prefs)
			if scored.Score < 0 || scored.Score > 1 {
				t.Errorf("score out of [0,1]: %q prefs=%v → %.4f", l.Title, prefs, scored.Score)
			}
		}
	}
}

func TestBudgetFitMonotoneInPrice(t *testing.T) {
	s := newTestScorer()
	budget := 50000.0

	prev := math.Inf(1)
	for price := 1000.0; price <= 70000; price += 500 {
		l := &models.NormalizedListing{Title: "X", Price: models.KnownFloat(price), Source: "amazon"}
		c := s.Score(l, budget, nil).BreakdownFor(models.CriterionBudgetFit).Contribution
		if c > prev+1e-9 {
			t.Fatalf("budget fit not monotone: price %.0f → %.6f, previous %.6f", price, c, prev)
		}
		prev = c
	}
}

func TestBudgetFitZeroBeyondTolerance(t *testing.T) {
	s := newTestScorer()
	l := &models.NormalizedListing{Title: "X", Price: models.KnownFloat(60001), Source: "amazon"}
	scored := s.Score(l, 50000, nil)

	if c := scored.BreakdownFor(models.CriterionBudgetFit).Contribution; c != 0 {
		t.Errorf("contribution beyond 120%% of budget: got %.6f, want 0", c)
	}
	if !scored.OverBudget {
		t.Error("listing above budget must carry the over-budget flag")
	}
}

func TestUnknownPriceUnverified(t *testing.T) {
	s := newTestScorer()
	l := &models.NormalizedListing{Title: "X", Source: "amazon"}
	scored := s.Score(l, 50000, nil)

	b := scored.BreakdownFor(models.CriterionBudgetFit)
	if b.Contribution != 0 {
		t.Errorf("unknown price contribution: got %.6f, want 0", b.Contribution)
	}
	if b.Rationale != "unverified price" {
		t.Errorf("rationale: got %q, want %q", b.Rationale, "unverified price")
	}
	if scored.OverBudget {
		t.Error("unknown price must not be flagged over budget")
	}
}

func TestEmptyPreferencesRedistributeWeight(t *testing.T) {
	s := newTestScorer()
	scored := s.Score(asusListing(), 50000, nil)

	var totalWeight float64
	for _, cs := range scored.Breakdown {
		totalWeight += cs.Weight
	}
	if math.Abs(totalWeight-1.0) > 1e-9 {
		t.Errorf("redistributed weights sum to %.6f, want 1.0", totalWeight)
	}
	if scored.BreakdownFor(models.CriterionPreferenceMatch).Weight != 0 {
		t.Error("preference criterion must carry zero weight when no preferences are supplied")
	}
}

func TestReviewCountPenalty(t *testing.T) {
	s := newTestScorer()

	fiveStarsTwoReviews := &models.NormalizedListing{
		Title: "A", Price: models.KnownFloat(1000),
		Rating: models.KnownFloat(5), ReviewCount: models.KnownInt(2), Source: "amazon",
	}
	solidRatingManyReviews := &models.NormalizedListing{
		Title: "B", Price: models.KnownFloat(1000),
		Rating: models.KnownFloat(4.5), ReviewCount: models.KnownInt(500), Source: "amazon",
	}

	a := s.Score(fiveStarsTwoReviews, 50000, nil).BreakdownFor(models.CriterionRatingQuality)
	b := s.Score(solidRatingManyReviews, 50000, nil).BreakdownFor(models.CriterionRatingQuality)
	if a.Contribution >= b.Contribution {
		t.Errorf("5 stars from 2 reviews (%.4f) should score below 4.5 from 500 (%.4f)",
			a.Contribution, b.Contribution)
	}

	unknownCount := &models.NormalizedListing{
		Title: "C", Price: models.KnownFloat(1000),
		Rating: models.KnownFloat(5), Source: "amazon",
	}
	c := s.Score(unknownCount, 50000, nil).BreakdownFor(models.CriterionRatingQuality)
	if math.Abs(c.Contribution-c.Weight) > 1e-9 {
		t.Errorf("unknown review count must apply no penalty: got %.4f, weight %.4f",
			c.Contribution, c.Weight)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer()
	first := s.Score(asusListing(), 50000, []string{"gaming", "lightweight"})
	for i := 0; i < 10; i++ {
		again := s.Score(asusListing(), 50000, []string{"gaming", "lightweight"})
		if again.Score != first.Score {
			t.Fatalf("score drifted between runs: %.10f vs %.10f", again.Score, first.Score)
		}
	}
}

func TestSourceTrustPrior(t *testing.T) {
	s := newTestScorer()
	amazon := &models.NormalizedListing{Title: "A", Source: "amazon"}
	obscure := &models.NormalizedListing{Title: "B", Source: "dealbay"}

	a := s.Score(amazon, 50000, nil).BreakdownFor(models.CriterionSourceTrust)
	o := s.Score(obscure, 50000, nil).BreakdownFor(models.CriterionSourceTrust)
	if o.Contribution >= a.Contribution {
		t.Errorf("unknown source (%.4f) must not outscore a trusted one (%.4f)",
			o.Contribution, a.Contribution)
	}
}

func TestPreferenceMatching(t *testing.T) {
	tests := []struct {
		haystack string
		pref     string
		want     bool
	}{
		{"asus tuf gaming f15 gaming nvidia gtx 1650", "gaming", true},
		{"asus tuf gaming f15", "lightweight", false},
		{"hp pavilion 16gb ram ssd", "16gb ram", true},
		{"dell inspiron backlit keyboard", "backlit mechanical keyboard", true}, // 2 of 3 words
		{"lenovo ideapad", "", false},
	}

	for _, tt := range tests {
		if got := preferenceMatches(tt.haystack, tt.pref); got != tt.want {
			t.Errorf("preferenceMatches(%q, %q) = %v; want %v", tt.haystack, tt.pref, got, tt.want)
		}
	}
}
