package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/apperrors"
	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, request.Description, request.RequestorID, fmtTime(request.Created))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created FROM requests WHERE id = ?`

	var request models.ItemRequest
	var createdStr string
	err := db.QueryRowContext(ctx, query, id).Scan(&request.ID, &request.Description, &request.RequestorID, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("request #%d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if request.Created, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	return &request, nil
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check request existence: %w", err)
	}
	return count > 0, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created FROM requests
              WHERE requestor_id = ? ORDER BY created DESC`

	rows, err := db.QueryContext(ctx, query, requestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests by requestor: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func (db *DB) GetRequestsExcludingRequestor(ctx context.Context, requestorID int64, page models.Page) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created FROM requests
              WHERE requestor_id != ? ORDER BY created DESC LIMIT ? OFFSET ?`

	rows, err := db.QueryContext(ctx, query, requestorID, page.LimitOrDefault(), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	for rows.Next() {
		var request models.ItemRequest
		var createdStr string
		if err := rows.Scan(&request.ID, &request.Description, &request.RequestorID, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		created, err := parseTime(createdStr)
		if err != nil {
			return nil, err
		}
		request.Created = created
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
