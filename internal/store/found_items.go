package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/izgubljeno/internal/model"
)

const foundItemColumns = `id, finder_id, name, description, location, date_found, time_found, category, status, created_at, updated_at`

// CreateFoundItem creates a new active found item.
func CreateFoundItem(ctx context.Context, q Querier, item *model.FoundItem) (*model.FoundItem, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO found_items (finder_id, name, description, location, date_found, time_found, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.FinderID, item.Name, item.Description, item.Location, item.DateFound,
		nullString(item.TimeFound), nullString(item.Category),
	)
	if err != nil {
		return nil, fmt.Errorf("creating found item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting found item id: %w", err)
	}

	return GetFoundItem(ctx, q, id)
}

// GetFoundItem returns a found item by ID, including closed and deleted ones.
func GetFoundItem(ctx context.Context, q Querier, id int64) (*model.FoundItem, error) {
	item, err := scanFoundItem(q.QueryRowContext(ctx,
		`SELECT `+foundItemColumns+` FROM found_items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found item: %w", err)
	}
	return item, nil
}

// ListFoundItems returns active found items, newest first. Items that were
// created as a notification for a lost item and are reserved by that
// notification are hidden from the public list. A non-zero finderID
// restricts the list to that finder's items and shows them all.
func ListFoundItems(ctx context.Context, q Querier, finderID int64) ([]model.FoundItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+foundItemColumns+` FROM found_items fi
		 WHERE fi.status = 'active'
		   AND (? = 0 OR fi.finder_id = ?)
		   AND (? <> 0 OR NOT EXISTS (
		       SELECT 1 FROM claims c
		       WHERE c.found_item_id = fi.id
		         AND c.lost_item_id IS NOT NULL
		         AND c.status IN `+lockingStatusList+`))
		 ORDER BY fi.date_found DESC, fi.id DESC`, finderID, finderID, finderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing found items: %w", err)
	}
	defer rows.Close()

	var items []model.FoundItem
	for rows.Next() {
		item, err := scanFoundItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetFoundItemStatus changes a found item's status.
func SetFoundItemStatus(ctx context.Context, q Querier, id int64, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE found_items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("setting found item status: %w", err)
	}
	return nil
}

// DeleteFoundItem soft-deletes a found item and removes its claims.
func DeleteFoundItem(ctx context.Context, q Querier, id int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM claims WHERE found_item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting found item claims: %w", err)
	}
	if err := SetFoundItemStatus(ctx, q, id, model.ItemStatusDeleted); err != nil {
		return fmt.Errorf("deleting found item: %w", err)
	}
	return nil
}

func scanFoundItem(s rowScanner) (*model.FoundItem, error) {
	item := &model.FoundItem{}
	var timeFound, category sql.NullString
	err := s.Scan(&item.ID, &item.FinderID, &item.Name, &item.Description, &item.Location,
		&item.DateFound, &timeFound, &category, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.TimeFound = timeFound.String
	item.Category = category.String
	return item, nil
}
