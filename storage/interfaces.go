package storage

import "shopping-assistant/models"

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []*models.RawListing) error
	Close() error
}

// RecommendationWriter is the interface any storage backend for final
// results must satisfy.
type RecommendationWriter interface {
	WriteListings(listings []*models.NormalizedListing) error
	WriteRecommendations(query string, budget float64, recs []*models.Recommendation) error
	Close() error
}
