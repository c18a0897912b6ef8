package amazon

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
	searchURL = "https://www.amazon.in/s?k=%s"
	platform  = "amazon"
)

// Scraper collects raw product listings from amazon.in search pages.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	allocCtx context.Context
	seen     *utils.SeenSet
	retry    *utils.RetryConfig
}

// New creates a ready-to-use Amazon scraper sharing the given browser
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

// Fetch runs one search and extracts product cards, best-effort. Fields that
// cannot be located stay empty; the normalizer decides what that means.
func (s *Scraper) Fetch(query string) ([]*models.RawListing, error) {
	pageURL := fmt.Sprintf(searchURL, url.QueryEscape(query))
	s.logger.Info("[amazon] Searching: %s", pageURL)

	type cardData struct {
		Title   string `json:"title"`
		Price   string `json:"price"`
		Rating  string `json:"rating"`
		Reviews string `json:"reviews"`
		URL     string `json:"url"`
	}

	var cards []cardData

	err := s.retry.Do("amazon-search", func() error {
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
					var cards = document.querySelectorAll('div[data-component-type="s-search-result"]');

					for (var i = 0; i < cards.length && results.length < limit; i++) {
						var card = cards[i];

						var titleEl = card.querySelector('h2 a span') || card.querySelector('h2 span');
						var title = titleEl ? titleEl.innerText.trim() : '';

						var priceEl = card.querySelector('span.a-price > span.a-offscreen');
						var price = priceEl ? priceEl.innerText.trim() : '';

						var ratingEl = card.querySelector('span.a-icon-alt');
						var rating = ratingEl ? ratingEl.innerText.trim() : '';

						var reviewsEl = card.querySelector('span.a-size-base.s-underline-text') ||
						                card.querySelector('a[href*="#customerReviews"] span');
						var reviews = reviewsEl ? reviewsEl.innerText.trim() : '';

						var linkEl = card.querySelector('h2 a') || card.querySelector('a.a-link-normal');
						var href = linkEl ? linkEl.href : '';

						if (!title) continue;

						results.push({
							title:   title,
							price:   price,
							rating:  rating,
							reviews: reviews,
							url:     href
						});
					}
					return results;
				})()
			`, &cards),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("amazon: search %q: %w", query, err)
	}

	listings := make([]*models.RawListing, 0, len(cards))
	for _, c := range cards {
		if c.URL != "" && !s.seen.Add(c.URL) {
			s.logger.Debug("[amazon] Skipping duplicate: %s", c.URL)
			continue
		}
		listings = append(listings, &models.RawListing{
			Title:       c.Title,
			RawPrice:    c.Price,
			RawRating:   c.Rating,
			RawReviews:  c.Reviews,
			Platform:    platform,
			FeatureText: scraper.FeatureTextFromTitle(c.Title),
			URL:         c.URL,
			ScrapedAt:   time.Now(),
		})
	}

	s.logger.Info("[amazon] Collected %d listings for %q", len(listings), query)
	return listings, nil
}
