package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, comment.ItemID, comment.AuthorID, comment.Text, fmtTime(comment.Created))
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.item_id, c.author_id, c.text, u.name, c.created FROM comments c
              JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ? ORDER BY c.created DESC`

	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		var createdStr string
		if err := rows.Scan(&comment.ID, &comment.ItemID, &comment.AuthorID, &comment.Text, &comment.AuthorName, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if comment.Created, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
