// Package forum collects product discussion posts from Reddit and attaches
// an estimated rating to each one.
package forum

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopping-assistant/config"
	"shopping-assistant/models"
	"shopping-assistant/utils"
)

const searchURL = "https://www.reddit.com/r/%s/search.json"

// RedditClient fetches search results from Reddit's public JSON endpoint.
// Reddit rejects requests without a descriptive User-Agent, so the client
// always sends the one from configuration.
type RedditClient struct {
	cfg       *config.Config
	logger    *utils.Logger
	http      *http.Client
	sentiment SentimentScorer
	retry     *utils.RetryConfig
}

// NewRedditClient creates a client using cfg's subreddit list and user agent.
func NewRedditClient(cfg *config.Config, logger *utils.Logger, sentiment SentimentScorer) *RedditClient {
	return &RedditClient{
		cfg:       cfg,
		logger:    logger,
		http:      &http.Client{Timeout: 15 * time.Second},
		sentiment: sentiment,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
			Logger:      logger,
		},
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Ups        int     `json:"ups"`
	Subreddit  string  `json:"subreddit"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
}

// Fetch searches the configured subreddits for query and returns relevant
// posts with sentiment-estimated ratings. Posts whose title shares no word
// with the query are dropped.
func (c *RedditClient) Fetch(query string) ([]*models.ForumPost, error) {
	multi := strings.Join(c.cfg.Subreddits, "+")
	endpoint := fmt.Sprintf(searchURL, multi)

	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "on")
	params.Set("sort", "relevance")
	params.Set("limit", fmt.Sprintf("%d", c.cfg.MaxForumPosts*2))

	c.logger.Info("[forum] Searching r/%s for %q", multi, query)

	var listing redditListing
	err := c.retry.Do("reddit-search", func() error {
		req, err := http.NewRequest(http.MethodGet, endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.cfg.RedditUserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("reddit returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&listing)
	})
	if err != nil {
		return nil, err
	}

	queryWords := strings.Fields(strings.ToLower(query))
	posts := make([]*models.ForumPost, 0, c.cfg.MaxForumPosts)

	for _, child := range listing.Data.Children {
		p := child.Data
		if !relevant(p.Title, queryWords) {
			continue
		}
		posts = append(posts, &models.ForumPost{
			Subreddit: p.Subreddit,
			Title:     p.Title,
			Excerpt:   excerpt(p.Selftext, 280),
			Rating:    c.sentiment.Estimate(p.Title + " " + p.Selftext),
			Upvotes:   p.Ups,
			Query:     query,
			URL:       "https://www.reddit.com" + p.Permalink,
			Author:    p.Author,
			PostedAt:  time.Unix(int64(p.CreatedUTC), 0),
		})
		if len(posts) >= c.cfg.MaxForumPosts {
			break
		}
	}

	c.logger.Info("[forum] Found %d relevant posts (%d candidates)",
		len(posts), len(listing.Data.Children))
	return posts, nil
}

// relevant reports whether the title shares at least one query word.
func relevant(title string, queryWords []string) bool {
	lower := strings.ToLower(title)
	for _, w := range queryWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// excerpt truncates text to max runes on a word boundary.
func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
