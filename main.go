package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shopping-assistant/collector"
	"shopping-assistant/config"
	"shopping-assistant/forum"
	"shopping-assistant/models"
	"shopping-assistant/scraper"
	"shopping-assistant/scraper/amazon"
	"shopping-assistant/scraper/flipkart"
	"shopping-assistant/scraper/offline"
	"shopping-assistant/services"
	"shopping-assistant/storage"
	"shopping-assistant/utils"
	"shopping-assistant/web"
)

func main() {
	var (
		product     = flag.String("product", "", "product to search for (e.g. \"gaming laptop\")")
		budget      = flag.Float64("budget", 0, "maximum budget in INR")
		preferences = flag.String("preferences", "", "comma-separated preference terms (e.g. \"gaming,lightweight\")")
		limit       = flag.Int("limit", 0, "number of recommendations (default from config)")
		mock        = flag.Bool("mock", false, "use the offline catalog instead of live scraping")
		serve       = flag.Bool("serve", false, "run the HTTP API instead of a one-shot search")
		addr        = flag.String("addr", ":8080", "listen address for -serve")
	)
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Shopping Assistant starting ===")
	logger.Info("Config — concurrency: %d | rate: %dms | per-platform cap: %d | mock: %v",
		cfg.MaxConcurrency, cfg.RateLimitMs, cfg.MaxPerPlatform, *mock)

	if *limit <= 0 {
		*limit = cfg.TopRecommendations
	}

	coll, cleanup := buildCollector(cfg, logger, *mock)
	defer cleanup()

	recommender := services.NewRecommender(scoringConfig(cfg), cfg.MinScore, cfg.InsightsPerProduct, logger)

	if *serve {
		server := web.NewServer(coll, recommender, cfg.TopRecommendations, logger)
		if err := server.ListenAndServe(*addr); err != nil {
			logger.Error("HTTP server failed: %v", err)
			os.Exit(1)
		}
		return
	}

	if *product == "" {
		fmt.Fprintln(os.Stderr, "usage: shopping-assistant -product \"gaming laptop\" -budget 50000 [-preferences gaming,lightweight]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	snap := coll.Collect(services.SanitizeQuery(*product))

	// A dead live run still produces an answer from the offline catalog.
	if len(snap.Listings) == 0 && !*mock {
		logger.Warn("Live sources returned nothing — falling back to the offline catalog")
		fallback := offlineCollector(cfg, logger)
		snap = fallback.Collect(services.SanitizeQuery(*product))
	}

	persistRaw(cfg, logger, snap.Listings)

	var prefs []string
	if *preferences != "" {
		prefs = strings.Split(*preferences, ",")
	}

	recommendations, err := recommender.Recommend(*product, *budget, prefs, snap.Listings, snap.Posts, *limit)
	if err != nil {
		logger.Error("Recommendation failed: %v", err)
		os.Exit(1)
	}

	services.NewFormatter().Print(services.SanitizeQuery(*product), *budget, recommendations)

	persistRecommendations(cfg, logger, *product, *budget, recommendations)
}

// buildCollector wires the listing and forum sources. The returned cleanup
// releases the browser allocator when live scraping is in play.
func buildCollector(cfg *config.Config, logger *utils.Logger, mock bool) (*collector.Collector, func()) {
	cache, err := storage.NewCache(cfg.CacheDir, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	if err != nil {
		logger.Warn("Cache disabled: %v", err)
		cache = nil
	}

	if mock {
		return offlineCollector(cfg, logger), func() {}
	}

	allocCtx, cancel := scraper.NewAllocator(cfg.ChromeBin)
	sources := []collector.ListingSource{
		amazon.New(cfg, logger, allocCtx),
		flipkart.New(cfg, logger, allocCtx),
	}
	forums := []collector.ForumSource{
		forum.NewRedditClient(cfg, logger, forum.NewKeywordScorer()),
	}
	return collector.New(cfg, logger, cache, sources, forums), cancel
}

// offlineCollector serves the deterministic catalog. No cache: the catalog
// is already instant and cached live results should not leak into mock runs.
func offlineCollector(cfg *config.Config, logger *utils.Logger) *collector.Collector {
	sources := []collector.ListingSource{
		offline.NewProvider("amazon", logger),
		offline.NewProvider("flipkart", logger),
	}
	forums := []collector.ForumSource{offline.NewPostProvider(logger)}
	return collector.New(cfg, logger, nil, sources, forums)
}

func scoringConfig(cfg *config.Config) services.ScoringConfig {
	return services.ScoringConfig{
		BudgetWeight:        cfg.BudgetWeight,
		RatingWeight:        cfg.RatingWeight,
		PreferenceWeight:    cfg.PreferenceWeight,
		SourceTrustWeight:   cfg.SourceTrustWeight,
		OverBudgetTolerance: cfg.OverBudgetTolerance,
		UnderBudgetReward:   cfg.UnderBudgetReward,
		ReviewSaturation:    cfg.ReviewSaturation,
		SourceTrust:         cfg.SourceTrust,
		DefaultSourceTrust:  cfg.DefaultSourceTrust,
	}
}

// persistRaw dumps the raw snapshot to CSV. Best effort: persistence
// failures are logged and the run continues.
func persistRaw(cfg *config.Config, logger *utils.Logger, listings []*models.RawListing) {
	if len(listings) == 0 {
		return
	}
	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Warn("CSV writer unavailable: %v", err)
		return
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteRaw(listings); err != nil {
		logger.Warn("CSV write failed: %v", err)
		return
	}
	logger.Info("Raw listings saved to %s", cfg.CSVOutputPath)
}

// persistRecommendations stores the run in PostgreSQL when it is reachable.
func persistRecommendations(cfg *config.Config, logger *utils.Logger, query string, budget float64, recs []*models.Recommendation) {
	if len(recs) == 0 {
		return
	}
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Warn("PostgreSQL unavailable, skipping persistence: %v", err)
		return
	}
	defer pgWriter.Close()

	listings := make([]*models.NormalizedListing, 0, len(recs))
	for _, r := range recs {
		listings = append(listings, r.Scored.Listing)
	}
	if err := pgWriter.WriteListings(listings); err != nil {
		logger.Warn("PostgreSQL listings write failed: %v", err)
	}
	if err := pgWriter.WriteRecommendations(query, budget, recs); err != nil {
		logger.Warn("PostgreSQL recommendations write failed: %v", err)
		return
	}
	logger.Info("Run stored in PostgreSQL (tables: listings, recommendations)")
}
