package match

import "github.com/mrodal/inmomatch/internal/listing"

// Matches reports whether the listing satisfies every active filter of
// the criteria. Absent filters always pass; the checks short-circuit on
// the first failure, which affects cost but never the result.
func Matches(l *listing.Listing, c listing.Criteria) bool {
	if c.HasLocation() && l.Location != c.Location {
		return false
	}

	if c.HasPropertyType() && string(l.PropertyType) != c.PropertyType {
		return false
	}

	if c.HasPlan() && l.PlanTier() != c.Plan {
		return false
	}

	if c.PriceRange != nil {
		if l.Price < c.PriceRange.Min || l.Price > c.PriceRange.Max {
			return false
		}
	}

	return true
}

// FilterMatching returns the listings that satisfy the criteria,
// preserving input order
func FilterMatching(listings []listing.Listing, c listing.Criteria) []listing.Listing {
	var matched []listing.Listing
	for i := range listings {
		if Matches(&listings[i], c) {
			matched = append(matched, listings[i])
		}
	}
	return matched
}
