package listing

import (
	"errors"
	"fmt"
	"time"
)

// Currency identifies the price currency of a listing
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyUYU Currency = "UYU"
)

// PropertyType classifies what kind of property a listing offers
type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeLot        PropertyType = "lot"
	TypeCommercial PropertyType = "commercial"
)

// OperationType classifies the kind of transaction offered
type OperationType string

const (
	OperationSale     OperationType = "sale"
	OperationRent     OperationType = "rent"
	OperationSeasonal OperationType = "seasonal"
)

// PlanFree is the agency plan tier assumed when a listing has no agency
// or the agency has no plan set
const PlanFree = "free"

// Listing represents one property for sale or rent in the catalog
type Listing struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Price         float64       `json:"price"`
	Currency      Currency      `json:"currency"`
	Location      string        `json:"location"`
	PropertyType  PropertyType  `json:"property_type"`
	OperationType OperationType `json:"operation_type"`
	Rooms         *int          `json:"rooms,omitempty"`
	AgencyID      *string       `json:"agency_id,omitempty"`
	AgencyPlan    *string       `json:"-"` // populated from the owning agency when loaded
	CreatedAt     time.Time     `json:"created_at"`
}

// PlanTier returns the plan tier of the owning agency, defaulting to free
// for listings without an agency or whose agency has no plan.
func (l *Listing) PlanTier() string {
	if l.AgencyPlan == nil || *l.AgencyPlan == "" {
		return PlanFree
	}
	return *l.AgencyPlan
}

// FormatPrice returns the price with its currency code, e.g. "USD 105000"
func (l *Listing) FormatPrice() string {
	return fmt.Sprintf("%s %.0f", l.Currency, l.Price)
}

// Validate checks that the listing is well-formed
func (l *Listing) Validate() error {
	var errs []error

	if l.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if l.Price <= 0 {
		errs = append(errs, errors.New("price must be positive"))
	}
	switch l.Currency {
	case CurrencyUSD, CurrencyUYU:
	default:
		errs = append(errs, fmt.Errorf("unsupported currency: %q", l.Currency))
	}
	switch l.PropertyType {
	case TypeApartment, TypeHouse, TypeLot, TypeCommercial:
	default:
		errs = append(errs, fmt.Errorf("unknown property type: %q", l.PropertyType))
	}
	switch l.OperationType {
	case OperationSale, OperationRent, OperationSeasonal:
	default:
		errs = append(errs, fmt.Errorf("unknown operation type: %q", l.OperationType))
	}
	if l.Rooms != nil && *l.Rooms < 0 {
		errs = append(errs, errors.New("rooms must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Agency represents a real-estate agency that owns listings
type Agency struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions contains options for listing catalog queries
type ListOptions struct {
	CreatedAfter *time.Time
	Limit        int
}
