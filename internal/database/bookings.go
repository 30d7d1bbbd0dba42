package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status) VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		fmtTime(booking.Start),
		fmtTime(booking.End),
		string(booking.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status FROM bookings WHERE id = ?`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("booking #%d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	result, err := db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFoundf("booking #%d not found", id)
	}
	return nil
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, filter models.StatusFilter, now time.Time, page models.Page) ([]models.Booking, error) {
	predicate, args := filterPredicate(filter, now)
	query := `SELECT id, item_id, booker_id, start_at, end_at, status FROM bookings
              WHERE booker_id = ?` + predicate + ` ORDER BY start_at DESC LIMIT ? OFFSET ?`

	queryArgs := append([]any{bookerID}, args...)
	queryArgs = append(queryArgs, page.LimitOrDefault(), page.Offset)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by booker: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (db *DB) GetBookingsByItemOwner(ctx context.Context, ownerID int64, filter models.StatusFilter, now time.Time, page models.Page) ([]models.Booking, error) {
	predicate, args := filterPredicate(filter, now)
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status FROM bookings b
              JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ?` + predicate + ` ORDER BY b.start_at DESC LIMIT ? OFFSET ?`

	queryArgs := append([]any{ownerID}, args...)
	queryArgs = append(queryArgs, page.LimitOrDefault(), page.Offset)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by item owner: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// filterPredicate translates a status filter into an extra WHERE clause.
// Column names are unqualified on the booker path and qualified with the
// bookings alias on the owner path; sqlite resolves both because the items
// join carries no columns with these names.
func filterPredicate(filter models.StatusFilter, now time.Time) (string, []any) {
	nowStr := fmtTime(now)
	switch filter {
	case models.FilterCurrent:
		// start <= now < end
		return ` AND start_at <= ? AND end_at > ?`, []any{nowStr, nowStr}
	case models.FilterPast:
		return ` AND end_at < ?`, []any{nowStr}
	case models.FilterFuture:
		return ` AND start_at > ?`, []any{nowStr}
	case models.FilterWaiting:
		return ` AND status = ?`, []any{string(models.StatusWaiting)}
	case models.FilterRejected:
		return ` AND status = ?`, []any{string(models.StatusRejected)}
	default: // FilterAll
		return ``, nil
	}
}

// GetLastBooking returns the most recent non-rejected booking started at or
// before now, or nil when the item has none.
func (db *DB) GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status FROM bookings
              WHERE item_id = ? AND start_at <= ? AND status != ?
              ORDER BY start_at DESC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, fmtTime(now), string(models.StatusRejected)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	return booking, nil
}

// GetNextBooking returns the nearest non-rejected booking starting after
// now, or nil when the item has none.
func (db *DB) GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status FROM bookings
              WHERE item_id = ? AND start_at > ? AND status != ?
              ORDER BY start_at ASC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, fmtTime(now), string(models.StatusRejected)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return booking, nil
}

// HasFinishedApprovedBooking reports whether the booker has at least one
// approved booking of the item that ended strictly before now. This is the
// comment-eligibility predicate.
func (db *DB) HasFinishedApprovedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND end_at < ? AND status = ?`

	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, fmtTime(now), string(models.StatusApproved)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check rental history: %w", err)
	}
	return count > 0, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	var startStr, endStr, status string
	err := row.Scan(&booking.ID, &booking.ItemID, &booking.BookerID, &startStr, &endStr, &status)
	if err != nil {
		return nil, err
	}

	if booking.Start, err = parseTime(startStr); err != nil {
		return nil, err
	}
	if booking.End, err = parseTime(endStr); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatus(status)
	return &booking, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
