package listing

import "time"

// CriteriaAny is the sentinel criteria value meaning "don't care"
const CriteriaAny = "all"

// Criteria holds the optional filters of a saved search. Each field is an
// explicit optional so every matcher branch is typed; an empty or "all"
// value means the filter is not applied.
type Criteria struct {
	Location     string      `json:"location,omitempty"`
	PropertyType string      `json:"property_type,omitempty"`
	Plan         string      `json:"plan,omitempty"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
}

// PriceRange is an inclusive [Min, Max] price filter
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HasLocation reports whether the location filter is active
func (c Criteria) HasLocation() bool {
	return c.Location != "" && c.Location != CriteriaAny
}

// HasPropertyType reports whether the property type filter is active
func (c Criteria) HasPropertyType() bool {
	return c.PropertyType != "" && c.PropertyType != CriteriaAny
}

// HasPlan reports whether the agency plan filter is active
func (c Criteria) HasPlan() bool {
	return c.Plan != "" && c.Plan != CriteriaAny
}

// IsEmpty reports whether no filter is active (matches everything)
func (c Criteria) IsEmpty() bool {
	return !c.HasLocation() && !c.HasPropertyType() && !c.HasPlan() && c.PriceRange == nil
}

// SavedSearch is a user's persisted filter criteria plus notification
// watermark. The scheduler only ever reads the criteria and advances
// LastNotifiedAt; everything else is owner-controlled.
type SavedSearch struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	UserEmail      string     `json:"user_email"`
	Criteria       Criteria   `json:"criteria"`
	Active         bool       `json:"active"`
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WindowStart returns the lower bound of the "new listings" window for a
// digest run evaluated at now: the last successful notification time, or
// the default lookback before now if the search was never notified.
func (s *SavedSearch) WindowStart(now time.Time, lookback time.Duration) time.Time {
	if s.LastNotifiedAt != nil {
		return *s.LastNotifiedAt
	}
	return now.Add(-lookback)
}
