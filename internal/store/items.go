package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/store-re/server/internal/model"
)

const itemColumns = `id, name, description, image, location_id, amount, created_at, last_edited_at`

// InsertItem inserts an item with its tags, properties, and attachments and
// returns the assigned id. An item with ID 0 gets a generated id; a non-zero
// ID is inserted verbatim (used by ReplaceItem to preserve ids).
func InsertItem(ctx context.Context, q Querier, item *model.Item) (int64, error) {
	return insertItem(ctx, q, item, nil, "")
}

func insertItem(ctx context.Context, q Querier, item *model.Item, imageData []byte, imageMime string) (int64, error) {
	var result sql.Result
	var err error
	if item.ID == 0 {
		result, err = q.ExecContext(ctx,
			`INSERT INTO items (name, description, image, image_data, image_mime, location_id, amount, created_at, last_edited_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Name, item.Description, item.Image, imageData, nullString(imageMime),
			item.Location, item.Amount, item.Created, item.LastEdited,
		)
	} else {
		result, err = q.ExecContext(ctx,
			`INSERT INTO items (id, name, description, image, image_data, image_mime, location_id, amount, created_at, last_edited_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.Name, item.Description, item.Image, imageData, nullString(imageMime),
			item.Location, item.Amount, item.Created, item.LastEdited,
		)
	}
	if err != nil {
		cerr := classify(err)
		switch {
		case errors.Is(cerr, ErrDuplicate):
			return 0, fmt.Errorf("item name %q: %w", item.Name, cerr)
		case errors.Is(cerr, ErrForeignKey):
			return 0, fmt.Errorf("location id %d: %w", item.Location, cerr)
		case errors.Is(cerr, ErrInvalid):
			return 0, fmt.Errorf("item %q edited before created: %w", item.Name, cerr)
		}
		return 0, fmt.Errorf("inserting item: %w", err)
	}

	id := item.ID
	if id == 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("getting item id: %w", err)
		}
	}

	if err := insertItemChildren(ctx, q, id, item); err != nil {
		return 0, err
	}
	return id, nil
}

// insertItemChildren writes the tag links, both property lists, and the
// attachments for an item row that already exists.
func insertItemChildren(ctx context.Context, q Querier, id int64, item *model.Item) error {
	for _, tagID := range item.Tags {
		// OR IGNORE dedupes repeated tag ids; foreign keys still fail.
		_, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`,
			id, tagID,
		)
		if err != nil {
			cerr := classify(err)
			if errors.Is(cerr, ErrForeignKey) {
				return fmt.Errorf("tag id %d: %w", tagID, cerr)
			}
			return fmt.Errorf("tagging item: %w", err)
		}
	}

	for _, p := range item.PropertiesInternal {
		_, err := q.ExecContext(ctx,
			`INSERT INTO item_properties (item_id, is_custom, name, value) VALUES (?, 0, ?, ?)`,
			id, p.Name, p.Value,
		)
		if err != nil {
			return fmt.Errorf("adding internal property: %w", classify(err))
		}
	}
	for _, p := range item.PropertiesCustom {
		_, err := q.ExecContext(ctx,
			`INSERT INTO item_properties (item_id, is_custom, name, value) VALUES (?, 1, ?, ?)`,
			id, p.Name, p.Value,
		)
		if err != nil {
			return fmt.Errorf("adding custom property: %w", classify(err))
		}
	}

	for name, url := range item.Attachments {
		_, err := q.ExecContext(ctx,
			`INSERT INTO item_attachments (item_id, name, url) VALUES (?, ?, ?)`,
			id, name, url,
		)
		if err != nil {
			return fmt.Errorf("adding attachment %q: %w", name, classify(err))
		}
	}

	return nil
}

// ReplaceItem swaps the stored item for the given one, preserving the id.
// Implemented as delete-then-insert: child rows cascade away and are written
// fresh, so the replacement is a full replace, not a field merge. The stored
// image blob survives the swap.
func ReplaceItem(ctx context.Context, q Querier, item *model.Item) error {
	var imageData []byte
	var imageMime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM items WHERE id = ?`, item.ID,
	).Scan(&imageData, &imageMime)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %d: %w", item.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading item for replace: %w", err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, item.ID); err != nil {
		return fmt.Errorf("replacing item: %w", classify(err))
	}

	if _, err := insertItem(ctx, q, item, imageData, imageMime.String); err != nil {
		return err
	}
	return nil
}

// DeleteItem permanently removes an item and records it in the deletion
// ledger, atomically.
func DeleteItem(ctx context.Context, db *sql.DB, id, deletedAt int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}

	if err := RecordDeletion(ctx, tx, id, deletedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// GetItem returns a fully hydrated item by id, or nil if it doesn't exist.
func GetItem(ctx context.Context, q Querier, id int64) (*model.Item, error) {
	items, err := queryItems(ctx, q, ` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListItems returns all items, fully hydrated.
func ListItems(ctx context.Context, q Querier) ([]model.Item, error) {
	return queryItems(ctx, q, ``)
}

// ItemsCreatedAfter returns the items created strictly after the checkpoint.
func ItemsCreatedAfter(ctx context.Context, q Querier, checkpoint int64) ([]model.Item, error) {
	return queryItems(ctx, q, ` WHERE created_at > ?`, checkpoint)
}

// ItemsEditedBetween returns the items that already existed at the
// checkpoint (created_at <= createdBefore) but changed afterwards
// (last_edited_at > editedAfter).
func ItemsEditedBetween(ctx context.Context, q Querier, createdBefore, editedAfter int64) ([]model.Item, error) {
	return queryItems(ctx, q, ` WHERE created_at <= ? AND last_edited_at > ?`, createdBefore, editedAfter)
}

// SetItemImage stores an item's processed image blob.
func SetItemImage(ctx context.Context, q Querier, id int64, data []byte, mime string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET image_data = ?, image_mime = ? WHERE id = ?`,
		data, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's image blob and MIME type; nil data means
// the item has no image.
func GetItemImage(ctx context.Context, q Querier, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM items WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return data, mime.String, nil
}

// queryItems runs a filtered select over the items table and hydrates every
// returned item with its tags, properties, and attachments.
func queryItems(ctx context.Context, q Querier, where string, args ...any) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items`+where+` ORDER BY id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	byID := make(map[int64]*model.Item)
	for rows.Next() {
		var item model.Item
		var image sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &image,
			&item.Location, &item.Amount, &item.Created, &item.LastEdited); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if image.Valid {
			item.Image = &image.String
		}
		item.Tags = []int64{}
		item.PropertiesInternal = []model.Property{}
		item.PropertiesCustom = []model.Property{}
		item.Attachments = map[string]string{}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	if err := hydrateItems(ctx, q, byID); err != nil {
		return nil, err
	}
	return items, nil
}

// hydrateItems fills tags, properties, and attachments for the given items
// with one query per child table.
func hydrateItems(ctx context.Context, q Querier, byID map[int64]*model.Item) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	in := placeholders(len(ids))

	rows, err := q.QueryContext(ctx,
		`SELECT item_id, tag_id FROM item_tags WHERE item_id IN (`+in+`) ORDER BY tag_id`, ids...,
	)
	if err != nil {
		return fmt.Errorf("loading item tags: %w", err)
	}
	for rows.Next() {
		var itemID, tagID int64
		if err := rows.Scan(&itemID, &tagID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning item tag: %w", err)
		}
		byID[itemID].Tags = append(byID[itemID].Tags, tagID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading item tags: %w", err)
	}

	// Ordered by id so properties keep their insertion order per item.
	rows, err = q.QueryContext(ctx,
		`SELECT item_id, is_custom, name, value FROM item_properties WHERE item_id IN (`+in+`) ORDER BY id`, ids...,
	)
	if err != nil {
		return fmt.Errorf("loading item properties: %w", err)
	}
	for rows.Next() {
		var itemID int64
		var isCustom bool
		var p model.Property
		if err := rows.Scan(&itemID, &isCustom, &p.Name, &p.Value); err != nil {
			rows.Close()
			return fmt.Errorf("scanning item property: %w", err)
		}
		item := byID[itemID]
		if isCustom {
			item.PropertiesCustom = append(item.PropertiesCustom, p)
		} else {
			item.PropertiesInternal = append(item.PropertiesInternal, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading item properties: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT item_id, name, url FROM item_attachments WHERE item_id IN (`+in+`)`, ids...,
	)
	if err != nil {
		return fmt.Errorf("loading item attachments: %w", err)
	}
	for rows.Next() {
		var itemID int64
		var name, url string
		if err := rows.Scan(&itemID, &name, &url); err != nil {
			rows.Close()
			return fmt.Errorf("scanning item attachment: %w", err)
		}
		byID[itemID].Attachments[name] = url
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading item attachments: %w", err)
	}

	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
