package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency  int
	RateLimitMs     int
	MaxRetries      int
	MaxPerPlatform  int
	CacheDir        string
	CacheTTLSeconds int

	CSVOutputPath string
	ChromeBin     string

	RedditUserAgent string
	Subreddits      []string
	MaxForumPosts   int

	// Engine tunables. Weights are expected to sum to 1.
	BudgetWeight        float64
	RatingWeight        float64
	PreferenceWeight    float64
	SourceTrustWeight   float64
	OverBudgetTolerance float64
	UnderBudgetReward   float64
	ReviewSaturation    int
	MinScore            float64
	TopRecommendations  int
	InsightsPerProduct  int
	SourceTrust         map[string]float64
	DefaultSourceTrust  float64
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "assistant"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "assistant123"),
		PostgresDB:       getEnv("POSTGRES_DB", "shopping_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		MaxPerPlatform:  getEnvInt("MAX_PRODUCTS_PER_PLATFORM", 20),
		CacheDir:        getEnv("CACHE_DIR", "./cache"),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 86400),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_listings.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		RedditUserAgent: getEnv("REDDIT_USER_AGENT", "go:shopping-assistant:v0.1.0"),
		Subreddits: getEnvList("REDDIT_SUBREDDITS", []string{
			"gadgets", "tech", "reviews", "BuyItForLife", "GoodValue",
			"ProductReviews", "electronics", "IndianGaming", "india",
		}),
		MaxForumPosts: getEnvInt("MAX_FORUM_POSTS", 10),

		BudgetWeight:        getEnvFloat("BUDGET_WEIGHT", 0.35),
		RatingWeight:        getEnvFloat("RATING_WEIGHT", 0.30),
		PreferenceWeight:    getEnvFloat("PREFERENCE_WEIGHT", 0.25),
		SourceTrustWeight:   getEnvFloat("SOURCE_TRUST_WEIGHT", 0.10),
		OverBudgetTolerance: getEnvFloat("OVER_BUDGET_TOLERANCE", 0.20),
		UnderBudgetReward:   getEnvFloat("UNDER_BUDGET_REWARD", 0.30),
		ReviewSaturation:    getEnvInt("REVIEW_SATURATION", 50),
		MinScore:            getEnvFloat("MIN_SCORE", 0),
		TopRecommendations:  getEnvInt("TOP_RECOMMENDATIONS", 5),
		InsightsPerProduct:  getEnvInt("INSIGHTS_PER_PRODUCT", 3),
		SourceTrust: getEnvTrustTable("SOURCE_TRUST", map[string]float64{
			"amazon":   1.0,
			"flipkart": 0.9,
		}),
		DefaultSourceTrust: getEnvFloat("DEFAULT_SOURCE_TRUST", 0.4),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// getEnvTrustTable parses "amazon:1.0,flipkart:0.9" style tables.
func getEnvTrustTable(key string, fallback map[string]float64) map[string]float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	table := make(map[string]float64)
	for _, part := range strings.Split(val, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(kv[0]))
		trust, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil || name == "" {
			continue
		}
		table[name] = trust
	}
	if len(table) == 0 {
		return fallback
	}
	return table
}
