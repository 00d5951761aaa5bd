package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrodal/inmomatch/internal/listing"
)

// CreateAgency inserts a new agency
func (db *DB) CreateAgency(ctx context.Context, a *listing.Agency) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Plan == "" {
		a.Plan = listing.PlanFree
	}
	a.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO agencies (id, name, plan, created_at)
		VALUES (?, ?, ?, ?)
	`, a.ID, a.Name, a.Plan, a.CreatedAt)
	return err
}

// GetAgency retrieves an agency by ID
func (db *DB) GetAgency(ctx context.Context, id string) (*listing.Agency, error) {
	a := &listing.Agency{}

	err := db.QueryRowContext(ctx, `
		SELECT id, name, plan, created_at FROM agencies WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Plan, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// listingColumns selects listing fields joined with the owning agency's plan
const listingColumns = `
	l.id, l.title, l.price, l.currency, l.location, l.property_type,
	l.operation_type, l.rooms, l.agency_id, a.plan, l.created_at
`

func scanListing(scan func(dest ...interface{}) error) (*listing.Listing, error) {
	l := &listing.Listing{}
	var rooms sql.NullInt64
	var agencyID, agencyPlan sql.NullString

	if err := scan(
		&l.ID, &l.Title, &l.Price, &l.Currency, &l.Location, &l.PropertyType,
		&l.OperationType, &rooms, &agencyID, &agencyPlan, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	l.Rooms = IntPtr(rooms)
	l.AgencyID = StringPtr(agencyID)
	l.AgencyPlan = StringPtr(agencyPlan)
	return l, nil
}

// CreateListing inserts a new listing
func (db *DB) CreateListing(ctx context.Context, l *listing.Listing) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("invalid listing: %w", err)
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO listings (
			id, title, price, currency, location, property_type,
			operation_type, rooms, agency_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.Title, l.Price, l.Currency, l.Location, l.PropertyType,
		l.OperationType, NullInt64(l.Rooms), NullString(l.AgencyID), l.CreatedAt,
	)
	return err
}

// GetListing retrieves a listing by ID with the owning agency's plan
func (db *DB) GetListing(ctx context.Context, id string) (*listing.Listing, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings l
		LEFT JOIN agencies a ON l.agency_id = a.id
		WHERE l.id = ?
	`, id)

	l, err := scanListing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListListings retrieves listings with optional filters, oldest first
func (db *DB) ListListings(ctx context.Context, opts listing.ListOptions) ([]listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		LEFT JOIN agencies a ON l.agency_id = a.id
		WHERE 1=1
	`
	args := []interface{}{}

	if opts.CreatedAfter != nil {
		query += " AND l.created_at > ?"
		args = append(args, *opts.CreatedAfter)
	}

	query += " ORDER BY l.created_at ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}

	return listings, rows.Err()
}

// DeleteListing deletes a listing by ID
func (db *DB) DeleteListing(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("listing not found: %s", id)
	}
	return nil
}

// CreateSavedSearch inserts a new saved search
func (db *DB) CreateSavedSearch(ctx context.Context, s *listing.SavedSearch) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode criteria: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO saved_searches (
			id, user_id, user_email, criteria, active,
			last_notified_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.UserID, s.UserEmail, string(criteria), s.Active,
		nullTime(s.LastNotifiedAt), s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func scanSavedSearch(scan func(dest ...interface{}) error) (*listing.SavedSearch, error) {
	s := &listing.SavedSearch{}
	var criteria string
	var lastNotifiedAt sql.NullTime

	if err := scan(
		&s.ID, &s.UserID, &s.UserEmail, &criteria, &s.Active,
		&lastNotifiedAt, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(criteria), &s.Criteria); err != nil {
		return nil, fmt.Errorf("failed to decode criteria for search %s: %w", s.ID, err)
	}
	if lastNotifiedAt.Valid {
		s.LastNotifiedAt = &lastNotifiedAt.Time
	}
	return s, nil
}

// GetSavedSearch retrieves a saved search by ID
func (db *DB) GetSavedSearch(ctx context.Context, id string) (*listing.SavedSearch, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, user_email, criteria, active,
		       last_notified_at, created_at, updated_at
		FROM saved_searches WHERE id = ?
	`, id)

	s, err := scanSavedSearch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSavedSearches retrieves all saved searches, newest first
func (db *DB) ListSavedSearches(ctx context.Context) ([]listing.SavedSearch, error) {
	return db.querySavedSearches(ctx, `
		SELECT id, user_id, user_email, criteria, active,
		       last_notified_at, created_at, updated_at
		FROM saved_searches
		ORDER BY created_at DESC
	`)
}

// ListActiveSavedSearches retrieves the saved searches the digest
// scheduler evaluates
func (db *DB) ListActiveSavedSearches(ctx context.Context) ([]listing.SavedSearch, error) {
	return db.querySavedSearches(ctx, `
		SELECT id, user_id, user_email, criteria, active,
		       last_notified_at, created_at, updated_at
		FROM saved_searches
		WHERE active = 1
		ORDER BY created_at ASC
	`)
}

func (db *DB) querySavedSearches(ctx context.Context, query string, args ...interface{}) ([]listing.SavedSearch, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []listing.SavedSearch
	for rows.Next() {
		s, err := scanSavedSearch(rows.Scan)
		if err != nil {
			return nil, err
		}
		searches = append(searches, *s)
	}

	return searches, rows.Err()
}

// UpdateSavedSearch updates an existing saved search
func (db *DB) UpdateSavedSearch(ctx context.Context, s *listing.SavedSearch) error {
	s.UpdatedAt = time.Now()

	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode criteria: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		UPDATE saved_searches SET
			user_id = ?, user_email = ?, criteria = ?, active = ?,
			last_notified_at = ?, updated_at = ?
		WHERE id = ?
	`,
		s.UserID, s.UserEmail, string(criteria), s.Active,
		nullTime(s.LastNotifiedAt), s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("saved search not found: %s", s.ID)
	}
	return nil
}

// SetSavedSearchActive toggles a saved search on or off
func (db *DB) SetSavedSearchActive(ctx context.Context, id string, active bool) error {
	result, err := db.ExecContext(ctx, `
		UPDATE saved_searches SET active = ?, updated_at = ? WHERE id = ?
	`, active, time.Now(), id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("saved search not found: %s", id)
	}
	return nil
}

// DeleteSavedSearch deletes a saved search by ID
func (db *DB) DeleteSavedSearch(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("saved search not found: %s", id)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
