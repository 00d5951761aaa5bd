package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrodal/inmomatch/internal/match"
	"github.com/mrodal/inmomatch/internal/notify"
)

// Server exposes the matching engine over HTTP: recommendations for a
// listing detail page, and a trigger for the alert digest run.
type Server struct {
	logger      *slog.Logger
	recommender *match.Recommender
	scheduler   *notify.Scheduler
	router      chi.Router
}

// New creates a Server with its routes registered
func New(logger *slog.Logger, recommender *match.Recommender, scheduler *notify.Scheduler) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:      logger,
		recommender: recommender,
		scheduler:   scheduler,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)
	r.Get("/listings/{id}/recommendations", s.handleRecommendations)
	r.Post("/digest/run", s.handleDigestRun)

	s.router = r
	return s
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

// recommendationEntry flattens a listing with its score and reasons for
// the detail-page payload
type recommendationEntry struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	Location      string   `json:"location"`
	PropertyType  string   `json:"property_type"`
	OperationType string   `json:"operation_type"`
	Rooms         *int     `json:"rooms,omitempty"`
	AgencyID      *string  `json:"agency_id,omitempty"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
}

type recommendationsResponse struct {
	Recommendations []recommendationEntry `json:"recommendations"`
	Total           int                   `json:"total"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recs, err := s.recommender.Recommend(r.Context(), id)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			writeError(w, http.StatusNotFound, "listing not found")
			return
		}
		s.logger.Error("recommendation failed", "listing_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := recommendationsResponse{
		Recommendations: make([]recommendationEntry, 0, len(recs)),
		Total:           len(recs),
	}
	for _, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, recommendationEntry{
			ID:            rec.Listing.ID,
			Title:         rec.Listing.Title,
			Price:         rec.Listing.Price,
			Currency:      string(rec.Listing.Currency),
			Location:      rec.Listing.Location,
			PropertyType:  string(rec.Listing.PropertyType),
			OperationType: string(rec.Listing.OperationType),
			Rooms:         rec.Listing.Rooms,
			AgencyID:      rec.Listing.AgencyID,
			Score:         rec.Score,
			Reasons:       rec.Reasons,
		})
	}

	// The list is a pure function of catalog state, so it may be reused
	// for the cache window.
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(match.CacheTTL.Seconds())))
	writeJSON(w, http.StatusOK, resp)
}

type digestRunResponse struct {
	SearchesChecked int `json:"searches_checked"`
	DigestsSent     int `json:"digests_sent"`
	ListingsMatched int `json:"listings_matched"`
	Failures        int `json:"failures"`
}

func (s *Server) handleDigestRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.scheduler.Run(r.Context())
	if err != nil {
		s.logger.Error("digest run failed to start", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	for _, runErr := range result.Errors {
		s.logger.Warn("digest outcome error", "error", runErr)
	}

	writeJSON(w, http.StatusOK, digestRunResponse{
		SearchesChecked: result.SearchesChecked,
		DigestsSent:     result.DigestsSent,
		ListingsMatched: result.ListingsMatched,
		Failures:        len(result.Errors),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
