package flipkart

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"shopping-assistant/config"
	"shopping-assistant/models"
	"shopping-assistant/scraper"
	"shopping-assistant/utils"
)

const (
	searchURL = "https://www.flipkart.com/search?q=%s"
	platform  = "flipkart"
)

// Scraper collects raw product listings from flipkart.com search pages.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	allocCtx context.Context
	seen     *utils.SeenSet
	retry    *utils.RetryConfig
}

// New creates a ready-to-use Flipkart scraper sharing the given browser
// allocator context.
func New(cfg *config.Config, logger *utils.Logger, allocCtx context.Context) *Scraper {
	return &Scraper{
		cfg:      cfg,
		logger:   logger,
		allocCtx: allocCtx,
		seen:     utils.NewSeenSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    15 * time.Second,
			Logger:      logger,
		},
	}
}

// Platform returns the source name attached to every listing.
func (s *Scraper) Platform() string { return platform }

// Fetch runs one search and extracts product cards. Flipkart exposes a spec
// list per card, which feeds the feature text directly; the title is the
// fallback when that list is absent.
func (s *Scraper) Fetch(query string) ([]*models.RawListing, error) {
	pageURL := fmt.Sprintf(searchURL, url.QueryEscape(query))
	s.logger.Info("[flipkart] Searching: %s", pageURL)

	type cardData struct {
		Title    string `json:"title"`
		Price    string `json:"price"`
		Rating   string `json:"rating"`
		Reviews  string `json:"reviews"`
		Features string `json:"features"`
		URL      string `json:"url"`
	}

	var cards []cardData

	err := s.retry.Do("flipkart-search", func() error {
		ctx, cancel := chromedp.NewContext(s.allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		cards = nil
		return chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(4*time.Second),

			chromedp.Evaluate(`
				(function() {
					var results = [];
					var limit = `+fmt.Sprintf("%d", s.cfg.MaxPerPlatform)+`;
					var cards = document.querySelectorAll('div[data-id]');

					for (var i = 0; i < cards.length && results.length < limit; i++) {
						var card = cards[i];

						// Grid and list layouts use different classes.
						var titleEl = card.querySelector('div._4rR01T') ||
						              card.querySelector('a.s1Q9rs') ||
						              card.querySelector('a.IRpwTa');
						var title = titleEl ? (titleEl.innerText || titleEl.title || '').trim() : '';

						var priceEl = card.querySelector('div._30jeq3');
						var price = priceEl ? priceEl.innerText.trim() : '';

						var ratingEl = card.querySelector('div._3LWZlK');
						var rating = ratingEl ? ratingEl.innerText.trim() : '';

						var reviewsEl = card.querySelector('span._2_R_DZ');
						var reviews = '';
						if (reviewsEl) {
							var m = reviewsEl.innerText.match(/([\d,]+)\s*Ratings/i);
							reviews = m ? m[1] : reviewsEl.innerText.trim();
						}

						var features = [];
						var specEls = card.querySelectorAll('ul._1xgFaf li');
						for (var j = 0; j < specEls.length; j++) {
							features.push(specEls[j].innerText.trim());
						}

						var linkEl = card.querySelector('a._1fQZEK') ||
						             card.querySelector('a.s1Q9rs') ||
						             card.querySelector('a[href*="/p/"]');
						var href = linkEl ? linkEl.href : '';

						if (!title) continue;

						results.push({
							title:    title,
							price:    price,
							rating:   rating,
							reviews:  reviews,
							features: features.join('|'),
							url:      href
						});
					}
					return results;
				})()
			`, &cards),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("flipkart: search %q: %w", query, err)
	}

	listings := make([]*models.RawListing, 0, len(cards))
	for _, c := range cards {
		if c.URL != "" && !s.seen.Add(c.URL) {
			s.logger.Debug("[flipkart] Skipping duplicate: %s", c.URL)
			continue
		}
		featureText := c.Features
		if featureText == "" {
			featureText = scraper.FeatureTextFromTitle(c.Title)
		}
		listings = append(listings, &models.RawListing{
			Title:       c.Title,
			RawPrice:    c.Price,
			RawRating:   c.Rating,
			RawReviews:  c.Reviews,
			Platform:    platform,
			FeatureText: featureText,
			URL:         c.URL,
			ScrapedAt:   time.Now(),
		})
	}

	s.logger.Info("[flipkart] Collected %d listings for %q", len(listings), query)
	return listings, nil
}
