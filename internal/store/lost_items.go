package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/izgubljeno/internal/model"
)

const lostItemColumns = `id, owner_id, name, description, location, date_lost, time_lost, category, status, created_at, updated_at`

// CreateLostItem creates a new active lost item.
func CreateLostItem(ctx context.Context, q Querier, item *model.LostItem) (*model.LostItem, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO lost_items (owner_id, name, description, location, date_lost, time_lost, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.OwnerID, item.Name, item.Description, item.Location, item.DateLost,
		nullString(item.TimeLost), nullString(item.Category),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost item id: %w", err)
	}

	return GetLostItem(ctx, q, id)
}

// GetLostItem returns a lost item by ID, including deleted ones.
func GetLostItem(ctx context.Context, q Querier, id int64) (*model.LostItem, error) {
	item, err := scanLostItem(q.QueryRowContext(ctx,
		`SELECT `+lostItemColumns+` FROM lost_items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost item: %w", err)
	}
	return item, nil
}

// ListLostItems returns active lost items, newest report first. A non-zero
// ownerID restricts the list to that owner's items.
func ListLostItems(ctx context.Context, q Querier, ownerID int64) ([]model.LostItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+lostItemColumns+` FROM lost_items
		 WHERE status = 'active' AND (? = 0 OR owner_id = ?)
		 ORDER BY date_lost DESC, id DESC`, ownerID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing lost items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		item, err := scanLostItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lost item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetLostItemStatus changes a lost item's status.
func SetLostItemStatus(ctx context.Context, q Querier, id int64, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE lost_items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("setting lost item status: %w", err)
	}
	return nil
}

// DeleteLostItem soft-deletes a lost item and removes every claim that
// references it, releasing any reservation the item held.
func DeleteLostItem(ctx context.Context, q Querier, id int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM claims WHERE lost_item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting lost item claims: %w", err)
	}
	if err := SetLostItemStatus(ctx, q, id, model.ItemStatusDeleted); err != nil {
		return fmt.Errorf("deleting lost item: %w", err)
	}
	return nil
}

func scanLostItem(s rowScanner) (*model.LostItem, error) {
	item := &model.LostItem{}
	var timeLost, category sql.NullString
	err := s.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Location,
		&item.DateLost, &timeLost, &category, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.TimeLost = timeLost.String
	item.Category = category.String
	return item, nil
}
