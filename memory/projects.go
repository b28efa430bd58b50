package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ProjectCreate carries the caller-supplied fields of a new project.
type ProjectCreate struct {
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Goal          string          `json:"goal"`
	Status        string          `json:"status"`
	StartDate     string          `json:"startDate"`
	TargetEndDate string          `json:"targetEndDate"`
	Tags          []string        `json:"tags"`
	Color         string          `json:"color"`
	Context       *ProjectContext `json:"context"`
}

func (s *Store) CreateProject(ctx context.Context, create ProjectCreate) (*Project, error) {
	if create.Title == "" {
		return nil, fmt.Errorf("project title is required")
	}
	if create.UserID == "" {
		create.UserID = "default_user"
	}
	if create.Status == "" {
		create.Status = "active"
	}

	now := nowUTC()
	project := &Project{
		ID:            uuid.NewString(),
		UserID:        create.UserID,
		Title:         create.Title,
		Description:   create.Description,
		Goal:          create.Goal,
		Status:        create.Status,
		StartDate:     create.StartDate,
		TargetEndDate: create.TargetEndDate,
		Tags:          create.Tags,
		Color:         create.Color,
		Context:       create.Context,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	contextJSON, err := marshalNullable(project.Context)
	if err != nil {
		return nil, fmt.Errorf("encode project context: %w", err)
	}
	tagsJSON, err := json.Marshal(project.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode project tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, title, description, goal, status,
			start_date, target_end_date, tags, color, context, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Title, project.Description, project.Goal,
		project.Status, project.StartDate, project.TargetEndDate, string(tagsJSON),
		project.Color, contextJSON, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, goal, status, start_date,
			target_end_date, tags, color, context, created_at, updated_at
		FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (s *Store) ListProjects(ctx context.Context, userID string) ([]*Project, error) {
	if userID == "" {
		userID = "default_user"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, goal, status, start_date,
			target_end_date, tags, color, context, created_at, updated_at
		FROM projects WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (*Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		project.Title = *update.Title
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Goal != nil {
		project.Goal = *update.Goal
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.TargetEndDate != nil {
		project.TargetEndDate = *update.TargetEndDate
	}
	if update.Tags != nil {
		project.Tags = *update.Tags
	}
	if update.Color != nil {
		project.Color = *update.Color
	}
	if update.Context != nil {
		project.Context = update.Context
	}
	project.UpdatedAt = nowUTC()

	contextJSON, err := marshalNullable(project.Context)
	if err != nil {
		return nil, fmt.Errorf("encode project context: %w", err)
	}
	tagsJSON, err := json.Marshal(project.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode project tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects SET title = ?, description = ?, goal = ?, status = ?,
			target_end_date = ?, tags = ?, color = ?, context = ?, updated_at = ?
		WHERE id = ?`,
		project.Title, project.Description, project.Goal, project.Status,
		project.TargetEndDate, string(tagsJSON), project.Color, contextJSON,
		project.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project. Its milestones, tasks and planning
// sessions go with it through the cascading foreign keys.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var tagsJSON string
	var contextJSON sql.NullString

	err := row.Scan(&project.ID, &project.UserID, &project.Title, &project.Description,
		&project.Goal, &project.Status, &project.StartDate, &project.TargetEndDate,
		&tagsJSON, &project.Color, &contextJSON, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &project.Tags); err != nil {
		project.Tags = []string{}
	}
	if contextJSON.Valid && contextJSON.String != "" {
		var pc ProjectContext
		if err := json.Unmarshal([]byte(contextJSON.String), &pc); err == nil {
			project.Context = &pc
		}
	}
	return &project, nil
}

func marshalNullable(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typed := v.(type) {
	case *ProjectContext:
		if typed == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
