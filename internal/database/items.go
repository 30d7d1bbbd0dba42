package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"
)

const itemColumns = `id, owner_id, name, description, available, request_id`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (owner_id, name, description, available, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := fmtTime(time.Now())
	result, err := db.ExecContext(ctx, query,
		item.OwnerID,
		item.Name,
		item.Description,
		item.Available,
		nullableID(item.RequestID),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, fmtTime(time.Now()), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFoundf("item #%d not found", item.ID)
	}
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("item #%d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`

	rows, err := db.QueryContext(ctx, query, ownerID, page.LimitOrDefault(), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by owner: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// SearchItems performs a case-insensitive substring search over item name
// and description, restricted to available items.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1
                AND (LOWER(name) LIKE '%' || LOWER(?) || '%' OR LOWER(description) LIKE '%' || LOWER(?) || '%')
              ORDER BY id LIMIT ? OFFSET ?`

	rows, err := db.QueryContext(ctx, query, text, text, page.LimitOrDefault(), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (db *DB) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(requestIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id IN (` + placeholders + `) ORDER BY id`

	args := make([]any, len(requestIDs))
	for i, id := range requestIDs {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by request ids: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Available, &requestID)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = requestID.Int64
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
