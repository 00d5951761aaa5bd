package listing

import (
	"strings"
	"testing"
	"time"
)

func TestPlanTier(t *testing.T) {
	premium := "premium"
	empty := ""

	tests := []struct {
		name string
		plan *string
		want string
	}{
		{"no agency", nil, PlanFree},
		{"agency without plan", &empty, PlanFree},
		{"premium agency", &premium, "premium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Listing{AgencyPlan: tt.plan}
			if got := l.PlanTier(); got != tt.want {
				t.Errorf("PlanTier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	l := &Listing{Price: 145000, Currency: CurrencyUSD}
	if got := l.FormatPrice(); got != "USD 145000" {
		t.Errorf("FormatPrice() = %q, want %q", got, "USD 145000")
	}

	l = &Listing{Price: 38500.75, Currency: CurrencyUYU}
	if got := l.FormatPrice(); got != "UYU 38501" {
		t.Errorf("FormatPrice() = %q, want %q", got, "UYU 38501")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Listing {
		return Listing{
			Title:         "Bright 2BR in Pocitos",
			Price:         145000,
			Currency:      CurrencyUSD,
			Location:      "Pocitos",
			PropertyType:  TypeApartment,
			OperationType: OperationSale,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr string
	}{
		{"valid listing", func(l *Listing) {}, ""},
		{"missing title", func(l *Listing) { l.Title = "" }, "title is required"},
		{"zero price", func(l *Listing) { l.Price = 0 }, "price must be positive"},
		{"negative price", func(l *Listing) { l.Price = -1 }, "price must be positive"},
		{"bad currency", func(l *Listing) { l.Currency = "EUR" }, "unsupported currency"},
		{"bad property type", func(l *Listing) { l.PropertyType = "castle" }, "unknown property type"},
		{"bad operation", func(l *Listing) { l.OperationType = "barter" }, "unknown operation type"},
		{"negative rooms", func(l *Listing) { n := -2; l.Rooms = &n }, "rooms must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid()
			tt.mutate(&l)
			err := l.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	l := Listing{}
	err := l.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"title is required", "price must be positive", "unsupported currency"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q: %v", want, err)
		}
	}
}

func TestCriteriaHelpers(t *testing.T) {
	tests := []struct {
		name      string
		criteria  Criteria
		wantEmpty bool
	}{
		{"zero value", Criteria{}, true},
		{"all sentinels", Criteria{Location: CriteriaAny, PropertyType: CriteriaAny, Plan: CriteriaAny}, true},
		{"location set", Criteria{Location: "Pocitos"}, false},
		{"price range set", Criteria{PriceRange: &PriceRange{Min: 1, Max: 2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	lookback := 24 * time.Hour

	s := &SavedSearch{}
	if got := s.WindowStart(now, lookback); !got.Equal(now.Add(-lookback)) {
		t.Errorf("WindowStart() = %v, want %v", got, now.Add(-lookback))
	}

	notified := now.Add(-2 * time.Hour)
	s.LastNotifiedAt = &notified
	if got := s.WindowStart(now, lookback); !got.Equal(notified) {
		t.Errorf("WindowStart() = %v, want %v", got, notified)
	}
}
