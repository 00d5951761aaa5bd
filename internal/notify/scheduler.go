package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mrodal/inmomatch/internal/listing"
	"github.com/mrodal/inmomatch/internal/match"
)

// DefaultLookback is the notification window for searches that were
// never notified
const DefaultLookback = 24 * time.Hour

// Dispatcher delivers one HTML message to an address
type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Catalog is the read access the scheduler needs
type Catalog interface {
	ListListings(ctx context.Context, opts listing.ListOptions) ([]listing.Listing, error)
}

// SearchStore is the saved-search access the scheduler needs
type SearchStore interface {
	ListActiveSavedSearches(ctx context.Context) ([]listing.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, s *listing.SavedSearch) error
}

// Scheduler runs the alert digest over all active saved searches. One
// Run sends at most one email per search and advances each search's
// watermark only after a successful send, so a failed dispatch is
// retried with the same window on the next run.
type Scheduler struct {
	catalog  Catalog
	searches SearchStore
	mailer   Dispatcher
	subject  string
	lookback time.Duration
	now      func() time.Time
}

// New creates a Scheduler
func New(catalog Catalog, searches SearchStore, mailer Dispatcher, subject string, lookback time.Duration) *Scheduler {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Scheduler{
		catalog:  catalog,
		searches: searches,
		mailer:   mailer,
		subject:  subject,
		lookback: lookback,
		now:      time.Now,
	}
}

// Outcome is the result of evaluating one saved search in a run
type Outcome struct {
	SearchID  string `json:"search_id"`
	UserEmail string `json:"user_email"`
	Matched   int    `json:"matched"`
	Sent      bool   `json:"sent"`
	Skipped   bool   `json:"skipped"` // no new matching listings
	Err       error  `json:"-"`
}

// RunResult aggregates a full digest run
type RunResult struct {
	SearchesChecked int       `json:"searches_checked"`
	DigestsSent     int       `json:"digests_sent"`
	ListingsMatched int       `json:"listings_matched"`
	Outcomes        []Outcome `json:"outcomes"`
	Errors          []error   `json:"-"`
}

// Run evaluates every active saved search once. Failures are isolated
// per search: a repository or dispatch error is recorded in the outcome
// and the run continues with the next search. The returned error is
// non-nil only when the run could not start at all.
func (s *Scheduler) Run(ctx context.Context) (*RunResult, error) {
	searches, err := s.searches.ListActiveSavedSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active searches: %w", err)
	}

	result := &RunResult{SearchesChecked: len(searches)}

	for i := range searches {
		outcome := s.process(ctx, &searches[i])

		result.Outcomes = append(result.Outcomes, outcome)
		result.ListingsMatched += outcome.Matched
		if outcome.Sent {
			result.DigestsSent++
		}
		if outcome.Err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("search %s: %w", outcome.SearchID, outcome.Err))
		}
	}

	return result, nil
}

// process evaluates one saved search and, if it has new matches, sends
// its digest and advances the watermark
func (s *Scheduler) process(ctx context.Context, search *listing.SavedSearch) Outcome {
	outcome := Outcome{SearchID: search.ID, UserEmail: search.UserEmail}

	now := s.now()
	since := search.WindowStart(now, s.lookback)

	candidates, err := s.catalog.ListListings(ctx, listing.ListOptions{CreatedAfter: &since})
	if err != nil {
		outcome.Err = fmt.Errorf("failed to load new listings: %w", err)
		return outcome
	}

	matched := match.FilterMatching(candidates, search.Criteria)
	outcome.Matched = len(matched)

	// A zero-match run leaves the watermark alone: the window keeps
	// growing from the last successful send (or the initial lookback)
	// until something matches.
	if len(matched) == 0 {
		outcome.Skipped = true
		return outcome
	}

	html, err := RenderDigest(matched)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to render digest: %w", err)
		return outcome
	}

	subject := fmt.Sprintf("%s (%d)", s.subject, len(matched))
	if err := s.mailer.Send(ctx, search.UserEmail, subject, html); err != nil {
		// Watermark stays put so the same matches are reconsidered on
		// the next run. Duplicates across retried runs are possible,
		// missed notifications are not.
		outcome.Err = fmt.Errorf("failed to dispatch digest: %w", err)
		return outcome
	}

	search.LastNotifiedAt = &now
	if err := s.searches.UpdateSavedSearch(ctx, search); err != nil {
		// The email went out; surface the persistence fault so the
		// likely duplicate on the next run is at least explained.
		outcome.Sent = true
		outcome.Err = fmt.Errorf("digest sent but failed to persist watermark: %w", err)
		return outcome
	}

	outcome.Sent = true
	return outcome
}
