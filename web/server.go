// Package web exposes the recommendation pipeline over HTTP.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shopping-assistant/collector"
	"shopping-assistant/models"
	"shopping-assistant/services"
	"shopping-assistant/utils"
)

// Server serves search requests against the collector and recommender.
type Server struct {
	collector   *collector.Collector
	recommender *services.Recommender
	logger      *utils.Logger
	limit       int
}

// NewServer creates a Server. limit is the default result count when the
// request does not specify one.
func NewServer(c *collector.Collector, r *services.Recommender, limit int, logger *utils.Logger) *Server {
	return &Server{collector: c, recommender: r, logger: logger, limit: limit}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	return r
}

// ListenAndServe blocks serving the router on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("[web] Listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchResponse struct {
	Query           string                        `json:"query"`
	Budget          float64                       `json:"budget"`
	Recommendations []models.RecommendationRecord `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	budget, err := strconv.ParseFloat(r.URL.Query().Get("budget"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "budget must be a number"})
		return
	}

	var preferences []string
	if raw := r.URL.Query().Get("preferences"); raw != "" {
		preferences = strings.Split(raw, ",")
	}

	limit := s.limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
			return
		}
	}

	snap := s.collector.Collect(services.SanitizeQuery(q))

	recs, err := s.recommender.Recommend(q, budget, preferences, snap.Listings, snap.Posts, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if isInvalidInput(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	resp := searchResponse{
		Query:           services.SanitizeQuery(q),
		Budget:          budget,
		Recommendations: make([]models.RecommendationRecord, 0, len(recs)),
	}
	for _, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, rec.Record())
	}
	writeJSON(w, http.StatusOK, resp)
}

func isInvalidInput(err error) bool {
	return errors.Is(err, services.ErrInvalidQuery) ||
		errors.Is(err, services.ErrInvalidBudget) ||
		errors.Is(err, services.ErrInvalidLimit) ||
		errors.Is(err, services.ErrInvalidPreferences)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
