package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"shopping-assistant/models"
)

// PostgresWriter persists normalized listings and final recommendations.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id           SERIAL PRIMARY KEY,
			source       VARCHAR(50) NOT NULL,
			title        TEXT        NOT NULL,
			price        NUMERIC(12,2),
			rating       NUMERIC(4,2),
			review_count INTEGER,
			features     TEXT        NOT NULL DEFAULT '',
			url          TEXT        UNIQUE NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price  ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source);
		CREATE INDEX IF NOT EXISTS idx_listings_rating ON listings(rating);

		CREATE TABLE IF NOT EXISTS recommendations (
			id          SERIAL PRIMARY KEY,
			query       TEXT         NOT NULL,
			budget      NUMERIC(12,2) NOT NULL,
			rank        INTEGER      NOT NULL,
			title       TEXT         NOT NULL,
			price       NUMERIC(12,2),
			source      VARCHAR(50)  NOT NULL,
			url         TEXT         NOT NULL,
			score       NUMERIC(6,4) NOT NULL,
			explanation TEXT         NOT NULL,
			fallback    BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_recommendations_query ON recommendations(query);
	`)
	return err
}

// WriteListings batch-inserts normalized listings, skipping URLs already
// stored. Unknown numerics are stored as NULL, never as zero.
func (pw *PostgresWriter) WriteListings(listings []*models.NormalizedListing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertListingBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertListingBatch(batch []*models.NormalizedListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*7)

	for idx, l := range batch {
		base := idx * 7
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			l.Source, l.Title, nullFloat(l.Price), nullFloat(l.Rating),
			nullInt(l.ReviewCount), strings.Join(l.Features, ", "), l.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (source, title, price, rating, review_count, features, url)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert listings: %w", err)
	}
	return nil
}

// WriteRecommendations records the final ranked output of one search run.
func (pw *PostgresWriter) WriteRecommendations(query string, budget float64, recs []*models.Recommendation) error {
	for _, rec := range recs {
		l := rec.Scored.Listing
		_, err := pw.db.Exec(`
			INSERT INTO recommendations (query, budget, rank, title, price, source, url, score, explanation, fallback)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, query, budget, rec.Rank, l.Title, nullFloat(l.Price), l.Source, l.URL,
			rec.Scored.Score, rec.Explanation, rec.Fallback)
		if err != nil {
			return fmt.Errorf("postgres: insert recommendation: %w", err)
		}
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullFloat(v models.OptFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Known}
}

func nullInt(v models.OptInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v.Value), Valid: v.Known}
}
