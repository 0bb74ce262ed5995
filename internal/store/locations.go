package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/store-re/server/internal/model"
)

// CreateLocation creates a new location and returns its id.
func CreateLocation(ctx context.Context, q Querier, loc *model.Location) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO locations (name, database_id) VALUES (?, ?)`,
		loc.Name, loc.Database,
	)
	if err != nil {
		cerr := classify(err)
		switch {
		case errors.Is(cerr, ErrDuplicate):
			return 0, fmt.Errorf("location name %q: %w", loc.Name, cerr)
		case errors.Is(cerr, ErrForeignKey):
			return 0, fmt.Errorf("database id %d: %w", loc.Database, cerr)
		}
		return 0, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting location id: %w", err)
	}
	return id, nil
}

// GetLocation returns a location by id, or nil if it doesn't exist.
func GetLocation(ctx context.Context, q Querier, id int64) (*model.Location, error) {
	loc := &model.Location{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, database_id FROM locations WHERE id = ?`, id,
	).Scan(&loc.ID, &loc.Name, &loc.Database)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return loc, nil
}

// ListLocations returns all locations.
func ListLocations(ctx context.Context, q Querier) ([]model.Location, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, database_id FROM locations ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locs []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Database); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// UpdateLocation replaces a location's fields.
func UpdateLocation(ctx context.Context, q Querier, loc *model.Location) error {
	result, err := q.ExecContext(ctx,
		`UPDATE locations SET name = ?, database_id = ? WHERE id = ?`,
		loc.Name, loc.Database, loc.ID,
	)
	if err != nil {
		cerr := classify(err)
		switch {
		case errors.Is(cerr, ErrDuplicate):
			return fmt.Errorf("location name %q: %w", loc.Name, cerr)
		case errors.Is(cerr, ErrForeignKey):
			return fmt.Errorf("database id %d: %w", loc.Database, cerr)
		}
		return fmt.Errorf("updating location: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("location %d: %w", loc.ID, ErrNotFound)
	}
	return nil
}

// DeleteLocation removes a location. Deletion is refused while any item is
// stored at it.
func DeleteLocation(ctx context.Context, q Querier, id int64) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE location_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking location usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("location %d holds %d items: %w", id, count, ErrInUse)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	return nil
}
