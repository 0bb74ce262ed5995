package store

import (
	"context"
	"fmt"
)

// RecordDeletion appends an item to the deletion ledger. The ledger is
// append-only: one row per permanently removed item, never updated.
func RecordDeletion(ctx context.Context, q Querier, itemID, deletedAt int64) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO item_deletions (item_id, deleted_at) VALUES (?, ?)`,
		itemID, deletedAt,
	)
	if err != nil {
		return fmt.Errorf("recording deletion: %w", classify(err))
	}
	return nil
}

// DeletionsAfter returns the ids of items deleted strictly after the
// checkpoint.
func DeletionsAfter(ctx context.Context, q Querier, checkpoint int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT item_id FROM item_deletions WHERE deleted_at > ? ORDER BY item_id`,
		checkpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("querying deletions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning deletion: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
