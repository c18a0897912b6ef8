// Package offline provides deterministic catalog-backed listings and forum
// posts for demo runs and for when live scraping is unavailable. Output
// depends only on the query and platform, never on time or randomness.
package offline

import (
	"fmt"
	"strings"
	"time"

	"shopping-assistant/models"
	"shopping-assistant/utils"
)

type catalogItem struct {
	title    string
	price    float64
	rating   float64
	reviews  int
	features string
}

var catalog = map[string][]catalogItem{
	"laptop": {
		{"ASUS TUF Gaming F15", 49990, 4.3, 1245, "gaming/NVIDIA GTX 1650/8GB RAM/512GB SSD"},
		{"Lenovo IdeaPad Slim 3", 38490, 4.1, 2310, "lightweight/15.6 inch/AMD Ryzen 5/thin and light"},
		{"HP Pavilion 15", 54990, 4.2, 980, "backlit keyboard/Intel i5 12th Gen/16GB RAM"},
		{"Dell Inspiron 3520", 42990, 4.0, 1670, "120Hz display/Intel i3/8GB RAM/1TB HDD"},
		{"Acer Aspire 5 Gaming", 47500, 4.2, 845, "gaming/RTX 2050/backlit keyboard"},
		{"MSI Modern 14", 36990, 4.3, 432, "lightweight/Ryzen 5/military grade durability"},
	},
	"phone": {
		{"Samsung Galaxy M34 5G", 16499, 4.2, 8732, "5G/6000mAh battery/120Hz AMOLED"},
		{"Redmi Note 13 Pro", 23999, 4.3, 5120, "camera/200MP/AMOLED display"},
		{"realme Narzo 60", 17999, 4.4, 3410, "90Hz display/4000mAh/33W charging"},
		{"iQOO Z9", 19999, 4.4, 2876, "gaming/MediaTek 7200/44W charging"},
	},
	"headphone": {
		{"boAt Rockerz 450", 1499, 4.1, 94532, "wireless/15 hours playback/padded earcups"},
		{"Sony WH-CH520", 4490, 4.3, 12045, "wireless/50 hours battery/multipoint"},
		{"JBL Tune 510BT", 3999, 4.2, 23810, "wireless/bass/40 hours playback"},
		{"Sennheiser HD 206", 2990, 4.3, 8934, "wired/studio sound/lightweight"},
	},
}

var genericItems = []catalogItem{
	{"Value Pick", 1999, 4.0, 1200, "budget/popular choice"},
	{"Premium Choice", 8999, 4.5, 640, "premium build/1 year warranty"},
	{"Bestseller Standard", 4499, 4.2, 3400, "bestseller/easy returns"},
}

// Provider serves catalog listings under a given platform name.
type Provider struct {
	platform string
	logger   *utils.Logger
}

// NewProvider creates a provider that labels its listings with platform.
func NewProvider(platform string, logger *utils.Logger) *Provider {
	return &Provider{platform: platform, logger: logger}
}

// Platform returns the source name attached to every listing.
func (p *Provider) Platform() string { return p.platform }

// Fetch returns catalog listings matching the query category. Prices differ
// slightly per platform so cross-platform ranking stays interesting.
func (p *Provider) Fetch(query string) ([]*models.RawListing, error) {
	items := itemsFor(query)
	p.logger.Info("[offline] Serving %d catalog listings for %q on %s", len(items), query, p.platform)

	adjust := 1.0
	if p.platform == "flipkart" {
		adjust = 0.98
	}

	listings := make([]*models.RawListing, 0, len(items))
	for i, item := range items {
		listings = append(listings, &models.RawListing{
			Title:       item.title,
			RawPrice:    utils.FormatINR(item.price * adjust),
			RawRating:   fmt.Sprintf("%.1f out of 5 stars", item.rating),
			RawReviews:  fmt.Sprintf("%d ratings", item.reviews),
			Platform:    p.platform,
			FeatureText: item.features,
			URL:         fmt.Sprintf("https://www.%s.example/item/%s-%d", p.platform, slug(item.title), i+1),
			ScrapedAt:   time.Unix(0, 0),
		})
	}
	return listings, nil
}

// PostProvider serves deterministic forum posts for the same catalog.
type PostProvider struct {
	logger *utils.Logger
}

// NewPostProvider creates a PostProvider.
func NewPostProvider(logger *utils.Logger) *PostProvider {
	return &PostProvider{logger: logger}
}

// Fetch returns discussion posts about the catalog items matching the query.
func (p *PostProvider) Fetch(query string) ([]*models.ForumPost, error) {
	items := itemsFor(query)
	p.logger.Info("[offline] Serving %d catalog forum posts for %q", len(items), query)

	subreddits := []string{"gadgets", "reviews", "BuyItForLife", "IndianGaming"}
	verdicts := []struct {
		rating  float64
		excerpt string
	}{
		{4.5, "been using the %s for six months now, zero complaints and great value"},
		{3.5, "the %s is decent for the price but the build feels a bit cheap"},
		{4.0, "after a lot of research I went with the %s and I'm happy with it"},
	}

	var posts []*models.ForumPost
	for i, item := range items {
		v := verdicts[i%len(verdicts)]
		posts = append(posts, &models.ForumPost{
			Subreddit: subreddits[i%len(subreddits)],
			Title:     fmt.Sprintf("%s - worth it?", item.title),
			Excerpt:   fmt.Sprintf(v.excerpt, strings.ToLower(item.title)),
			Rating:    models.KnownFloat(v.rating),
			Upvotes:   item.reviews / 10,
			Query:     query,
			URL:       fmt.Sprintf("https://www.reddit.com/r/%s/%s", subreddits[i%len(subreddits)], slug(item.title)),
			Author:    "archive_user",
			PostedAt:  time.Unix(0, 0),
		})
	}
	return posts, nil
}

func itemsFor(query string) []catalogItem {
	q := strings.ToLower(query)
	for keyword, items := range catalog {
		if strings.Contains(q, keyword) {
			return items
		}
	}
	// A couple of aliases the keyword map misses.
	switch {
	case strings.Contains(q, "notebook"):
		return catalog["laptop"]
	case strings.Contains(q, "mobile") || strings.Contains(q, "smartphone"):
		return catalog["phone"]
	case strings.Contains(q, "earphone") || strings.Contains(q, "headset"):
		return catalog["headphone"]
	}
	return genericItems
}

func slug(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}
