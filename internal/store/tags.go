package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/store-re/server/internal/model"
)

// CreateTag creates a new tag and returns its id.
func CreateTag(ctx context.Context, q Querier, tag *model.Tag) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO tags (name, color, icon) VALUES (?, ?, ?)`,
		tag.Name, tag.Color, tag.Icon,
	)
	if err != nil {
		cerr := classify(err)
		if errors.Is(cerr, ErrDuplicate) {
			return 0, fmt.Errorf("tag name %q: %w", tag.Name, cerr)
		}
		return 0, fmt.Errorf("creating tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting tag id: %w", err)
	}
	return id, nil
}

// GetTag returns a tag by id, or nil if it doesn't exist.
func GetTag(ctx context.Context, q Querier, id int64) (*model.Tag, error) {
	tag := &model.Tag{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, color, icon FROM tags WHERE id = ?`, id,
	).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Icon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags.
func ListTags(ctx context.Context, q Querier) ([]model.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, color, icon FROM tags ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Icon); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// UpdateTag replaces a tag's fields.
func UpdateTag(ctx context.Context, q Querier, tag *model.Tag) error {
	result, err := q.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, icon = ? WHERE id = ?`,
		tag.Name, tag.Color, tag.Icon, tag.ID,
	)
	if err != nil {
		cerr := classify(err)
		if errors.Is(cerr, ErrDuplicate) {
			return fmt.Errorf("tag name %q: %w", tag.Name, cerr)
		}
		return fmt.Errorf("updating tag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tag %d: %w", tag.ID, ErrNotFound)
	}
	return nil
}

// DeleteTag removes a tag. Deletion is refused while any item references it.
func DeleteTag(ctx context.Context, q Querier, id int64) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_tags WHERE tag_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking tag usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("tag %d is used by %d items: %w", id, count, ErrInUse)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return nil
}
