package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/store-re/server/internal/model"
)

// CreateDatabase creates a new logical database and returns its id.
func CreateDatabase(ctx context.Context, q Querier, d *model.Database) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO databases (name) VALUES (?)`, d.Name,
	)
	if err != nil {
		cerr := classify(err)
		if errors.Is(cerr, ErrDuplicate) {
			return 0, fmt.Errorf("database name %q: %w", d.Name, cerr)
		}
		return 0, fmt.Errorf("creating database: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting database id: %w", err)
	}
	return id, nil
}

// GetDatabase returns a database by id, or nil if it doesn't exist.
func GetDatabase(ctx context.Context, q Querier, id int64) (*model.Database, error) {
	d := &model.Database{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name FROM databases WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}
	return d, nil
}

// ListDatabases returns all databases.
func ListDatabases(ctx context.Context, q Querier) ([]model.Database, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM databases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}
	defer rows.Close()

	var dbs []model.Database
	for rows.Next() {
		var d model.Database
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning database: %w", err)
		}
		dbs = append(dbs, d)
	}
	return dbs, rows.Err()
}

// UpdateDatabase renames a database.
func UpdateDatabase(ctx context.Context, q Querier, d *model.Database) error {
	result, err := q.ExecContext(ctx,
		`UPDATE databases SET name = ? WHERE id = ?`, d.Name, d.ID,
	)
	if err != nil {
		cerr := classify(err)
		if errors.Is(cerr, ErrDuplicate) {
			return fmt.Errorf("database name %q: %w", d.Name, cerr)
		}
		return fmt.Errorf("updating database: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating database: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("database %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

// DeleteDatabase removes a database. Deletion is refused while any location
// belongs to it.
func DeleteDatabase(ctx context.Context, q Querier, id int64) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE database_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking database usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("database %d has %d locations: %w", id, count, ErrInUse)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM databases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting database: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting database: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("database %d: %w", id, ErrNotFound)
	}
	return nil
}
