package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type MilestoneCreate struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

func (s *Store) CreateMilestone(ctx context.Context, create MilestoneCreate) (*Milestone, error) {
	if create.ProjectID == "" {
		return nil, fmt.Errorf("milestone project id is required")
	}
	if create.Title == "" {
		return nil, fmt.Errorf("milestone title is required")
	}
	if create.Status == "" {
		create.Status = "todo"
	}

	now := nowUTC()
	milestone := &Milestone{
		ID:          uuid.NewString(),
		ProjectID:   create.ProjectID,
		Title:       create.Title,
		Description: create.Description,
		Order:       create.Order,
		DueDate:     create.DueDate,
		Status:      create.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO milestones (id, project_id, title, description, order_num,
			due_date, status, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		milestone.ID, milestone.ProjectID, milestone.Title, milestone.Description,
		milestone.Order, milestone.DueDate, milestone.Status,
		milestone.CreatedAt, milestone.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert milestone: %w", err)
	}
	return milestone, nil
}

func (s *Store) GetMilestone(ctx context.Context, id string) (*Milestone, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, order_num, due_date, status,
			completed_at, created_at, updated_at
		FROM milestones WHERE id = ?`, id)
	return scanMilestone(row)
}

// ListMilestones returns the milestones ordered by their position. An empty
// projectID lists all of them.
func (s *Store) ListMilestones(ctx context.Context, projectID string) ([]*Milestone, error) {
	query := `
		SELECT id, project_id, title, description, order_num, due_date, status,
			completed_at, created_at, updated_at
		FROM milestones`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY order_num`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []*Milestone{}
	for rows.Next() {
		milestone, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	return milestones, rows.Err()
}

func (s *Store) UpdateMilestone(ctx context.Context, id string, update MilestoneUpdate) (*Milestone, error) {
	milestone, err := s.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		milestone.Title = *update.Title
	}
	if update.Description != nil {
		milestone.Description = *update.Description
	}
	if update.Order != nil {
		milestone.Order = *update.Order
	}
	if update.DueDate != nil {
		milestone.DueDate = *update.DueDate
	}
	if update.Status != nil {
		milestone.Status = *update.Status
		if *update.Status == "done" && milestone.CompletedAt == nil {
			completed := nowUTC()
			milestone.CompletedAt = &completed
		}
	}
	milestone.UpdatedAt = nowUTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE milestones SET title = ?, description = ?, order_num = ?,
			due_date = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		milestone.Title, milestone.Description, milestone.Order, milestone.DueDate,
		milestone.Status, milestone.CompletedAt, milestone.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update milestone: %w", err)
	}
	return milestone, nil
}

// DeleteMilestone removes a milestone. Tasks that referenced it keep
// existing with their milestone cleared.
func (s *Store) DeleteMilestone(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMilestone(row rowScanner) (*Milestone, error) {
	var milestone Milestone
	var completedAt sql.NullString

	err := row.Scan(&milestone.ID, &milestone.ProjectID, &milestone.Title,
		&milestone.Description, &milestone.Order, &milestone.DueDate,
		&milestone.Status, &completedAt, &milestone.CreatedAt, &milestone.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan milestone: %w", err)
	}

	if completedAt.Valid {
		milestone.CompletedAt = &completedAt.String
	}
	return &milestone, nil
}
