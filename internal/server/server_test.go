package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrodal/inmomatch/internal/listing"
	"github.com/mrodal/inmomatch/internal/match"
	"github.com/mrodal/inmomatch/internal/notify"
)

type fakeStore struct {
	listings []listing.Listing
	searches []listing.SavedSearch
	updated  int
}

func (f *fakeStore) GetListing(ctx context.Context, id string) (*listing.Listing, error) {
	for i := range f.listings {
		if f.listings[i].ID == id {
			return &f.listings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListListings(ctx context.Context, opts listing.ListOptions) ([]listing.Listing, error) {
	return f.listings, nil
}

func (f *fakeStore) ListActiveSavedSearches(ctx context.Context) ([]listing.SavedSearch, error) {
	return f.searches, nil
}

func (f *fakeStore) UpdateSavedSearch(ctx context.Context, s *listing.SavedSearch) error {
	f.updated++
	return nil
}

type noopDispatcher struct{ sent int }

func (d *noopDispatcher) Send(ctx context.Context, to, subject, html string) error {
	d.sent++
	return nil
}

func testServer(store *fakeStore, dispatcher notify.Dispatcher) *Server {
	recommender := match.NewRecommender(store)
	scheduler := notify.New(store, store, dispatcher, "New listings", notify.DefaultLookback)
	return New(nil, recommender, scheduler)
}

func seededStore() *fakeStore {
	rooms := 3
	mk := func(id, title string) listing.Listing {
		return listing.Listing{
			ID:            id,
			Title:         title,
			Price:         100000,
			Currency:      listing.CurrencyUSD,
			Location:      "Pocitos",
			PropertyType:  listing.TypeApartment,
			OperationType: listing.OperationSale,
			Rooms:         &rooms,
			CreatedAt:     time.Now().Add(-time.Hour),
		}
	}
	return &fakeStore{listings: []listing.Listing{
		mk("ref", "Reference apartment"),
		mk("similar", "Similar apartment"),
	}}
}

func TestHandleRecommendations(t *testing.T) {
	srv := testServer(seededStore(), &noopDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/listings/ref/recommendations", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("expected hour-long cache directive, got %q", cc)
	}

	var resp struct {
		Recommendations []struct {
			ID      string   `json:"id"`
			Score   int      `json:"score"`
			Reasons []string `json:"reasons"`
		} `json:"recommendations"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 1 || len(resp.Recommendations) != 1 {
		t.Fatalf("expected exactly one recommendation, got %+v", resp)
	}
	if resp.Recommendations[0].ID != "similar" {
		t.Errorf("expected 'similar', got %q", resp.Recommendations[0].ID)
	}
	if resp.Recommendations[0].Score == 0 || len(resp.Recommendations[0].Reasons) == 0 {
		t.Error("expected a scored recommendation with reasons")
	}
}

func TestHandleRecommendations_NotFound(t *testing.T) {
	srv := testServer(seededStore(), &noopDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/listings/missing/recommendations", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "listing not found") {
		t.Errorf("expected error payload, got %s", rec.Body.String())
	}
}

func TestHandleDigestRun(t *testing.T) {
	store := seededStore()
	store.searches = []listing.SavedSearch{{
		ID:        "s1",
		UserEmail: "buyer@example.com",
		Active:    true,
		Criteria:  listing.Criteria{PropertyType: "apartment"},
	}}
	dispatcher := &noopDispatcher{}
	srv := testServer(store, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/digest/run", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SearchesChecked int `json:"searches_checked"`
		DigestsSent     int `json:"digests_sent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SearchesChecked != 1 || resp.DigestsSent != 1 {
		t.Errorf("unexpected run summary %+v", resp)
	}
	if dispatcher.sent != 1 {
		t.Errorf("expected 1 email sent, got %d", dispatcher.sent)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(seededStore(), &noopDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
