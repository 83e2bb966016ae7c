package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
)

// ChildRepository handles database operations for children
type ChildRepository struct {
	db database.DBTX
}

// NewChildRepository creates a new child repository
func NewChildRepository(db database.DBTX) *ChildRepository {
	return &ChildRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *ChildRepository) WithTx(tx *database.Tx) *ChildRepository {
	return &ChildRepository{db: tx}
}

// CreateChild inserts a child profile
func (r *ChildRepository) CreateChild(ctx context.Context, child models.Child) error {
	query := "INSERT INTO children (id, name, face_color, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, child.ID, child.Name, child.FaceColor, child.CreatedAt); err != nil {
		return fmt.Errorf("failed to create child: %w", err)
	}
	return nil
}

// GetChildByID retrieves a child by ID. It returns nil when none exists.
func (r *ChildRepository) GetChildByID(ctx context.Context, childID string) (*models.Child, error) {
	query := "SELECT id, name, face_color, created_at FROM children WHERE id = ?"
	child := &models.Child{}
	err := r.db.QueryRowContext(ctx, query, childID).Scan(
		&child.ID,
		&child.Name,
		&child.FaceColor,
		&child.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// GetAllChildren retrieves every child, oldest first
func (r *ChildRepository) GetAllChildren(ctx context.Context) ([]models.Child, error) {
	query := `
		SELECT id, name, face_color, created_at
		FROM children
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := []models.Child{}
	for rows.Next() {
		var child models.Child
		if err := rows.Scan(
			&child.ID,
			&child.Name,
			&child.FaceColor,
			&child.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children: %w", err)
	}
	return children, nil
}

// UpdateChild updates a child's name and colour. It reports whether a row matched.
func (r *ChildRepository) UpdateChild(ctx context.Context, childID, name, faceColor string) (bool, error) {
	query := "UPDATE children SET name = ?, face_color = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, name, faceColor, childID)
	if err != nil {
		return false, fmt.Errorf("failed to update child: %w", err)
	}
	return affected(result)
}

// DeleteChild removes a child; its lists and words go with it
func (r *ChildRepository) DeleteChild(ctx context.Context, childID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM children WHERE id = ?", childID)
	if err != nil {
		return false, fmt.Errorf("failed to delete child: %w", err)
	}
	return affected(result)
}

// DeleteAllChildren removes every child and, by cascade, every list
func (r *ChildRepository) DeleteAllChildren(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM children"); err != nil {
		return fmt.Errorf("failed to delete children: %w", err)
	}
	return nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
