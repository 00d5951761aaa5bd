package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mrodal/inmomatch/internal/listing"
)

// MaxRecommendations caps how many entries a recommendation list carries
const MaxRecommendations = 6

// CacheTTL is how long a recommendation list may be reused. The result is
// a pure function of catalog state at call time, so staleness within this
// window only delays new listings from appearing.
const CacheTTL = time.Hour

// ErrNotFound indicates the reference listing does not exist
var ErrNotFound = errors.New("listing not found")

// Catalog is the read access the recommender needs
type Catalog interface {
	GetListing(ctx context.Context, id string) (*listing.Listing, error)
	ListListings(ctx context.Context, opts listing.ListOptions) ([]listing.Listing, error)
}

// Recommendation pairs a candidate listing with its similarity score and
// the reasons the score fired
type Recommendation struct {
	Listing listing.Listing `json:"listing"`
	Score   int             `json:"score"`
	Reasons []string        `json:"reasons"`
}

// Recommender ranks the catalog by similarity to a reference listing
type Recommender struct {
	catalog Catalog
}

// NewRecommender creates a Recommender over the given catalog
func NewRecommender(catalog Catalog) *Recommender {
	return &Recommender{catalog: catalog}
}

// Recommend returns the top listings most similar to the reference,
// sorted by descending score. Candidates that share no rule with the
// reference are excluded entirely; ties keep catalog order.
func (r *Recommender) Recommend(ctx context.Context, referenceID string) ([]Recommendation, error) {
	reference, err := r.catalog.GetListing(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference listing: %w", err)
	}
	if reference == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, referenceID)
	}

	candidates, err := r.catalog.ListListings(ctx, listing.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var recommendations []Recommendation
	for i := range candidates {
		if candidates[i].ID == reference.ID {
			continue
		}

		score, reasons := Score(&candidates[i], reference)
		if score == 0 {
			continue
		}

		recommendations = append(recommendations, Recommendation{
			Listing: candidates[i],
			Score:   score,
			Reasons: reasons,
		})
	}

	// Stable so tied candidates keep their catalog order
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}

	return recommendations, nil
}
