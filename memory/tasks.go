package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type TaskCreate struct {
	ProjectID      string   `json:"projectId"`
	MilestoneID    *string  `json:"milestoneId"`
	ParentTaskID   *string  `json:"parentTaskId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"dueDate"`
	StartDate      string   `json:"startDate"`
	EstimatedHours float64  `json:"estimatedHours"`
	ActualHours    float64  `json:"actualHours"`
	Dependencies   []string `json:"dependencies"`
	BlockedBy      []string `json:"blockedBy"`
	Tags           []string `json:"tags"`
	IsToday        bool     `json:"isToday"`
}

func (s *Store) CreateTask(ctx context.Context, create TaskCreate) (*Task, error) {
	if create.ProjectID == "" {
		return nil, fmt.Errorf("task project id is required")
	}
	if create.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if create.Status == "" {
		create.Status = "todo"
	}
	if create.Priority == "" {
		create.Priority = "medium"
	}

	now := nowUTC()
	task := &Task{
		ID:             uuid.NewString(),
		ProjectID:      create.ProjectID,
		MilestoneID:    create.MilestoneID,
		ParentTaskID:   create.ParentTaskID,
		Title:          create.Title,
		Description:    create.Description,
		Status:         create.Status,
		Priority:       create.Priority,
		DueDate:        create.DueDate,
		StartDate:      create.StartDate,
		EstimatedHours: create.EstimatedHours,
		ActualHours:    create.ActualHours,
		Dependencies:   orEmpty(create.Dependencies),
		BlockedBy:      orEmpty(create.BlockedBy),
		Tags:           orEmpty(create.Tags),
		IsToday:        create.IsToday,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	deps, blocked, tags, err := encodeTaskLists(task)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, milestone_id, parent_task_id, title,
			description, status, priority, due_date, start_date, estimated_hours,
			actual_hours, dependencies, blocked_by, tags, is_today, completed_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		task.ID, task.ProjectID, task.MilestoneID, task.ParentTaskID, task.Title,
		task.Description, task.Status, task.Priority, task.DueDate, task.StartDate,
		task.EstimatedHours, task.ActualHours, deps, blocked, tags,
		boolToInt(task.IsToday), task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, taskSelect+` WHERE id = ?`, id)
	return scanTask(row)
}

func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	query := taskSelect
	clauses := []string{}
	args := []any{}
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.MilestoneID != "" {
		clauses = append(clauses, "milestone_id = ?")
		args = append(args, filter.MilestoneID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.MilestoneID != nil {
		task.MilestoneID = update.MilestoneID
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
		if *update.Status == "done" && task.CompletedAt == nil {
			completed := nowUTC()
			task.CompletedAt = &completed
		} else if *update.Status != "done" && task.CompletedAt != nil {
			task.CompletedAt = nil
		}
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.StartDate != nil {
		task.StartDate = *update.StartDate
	}
	if update.EstimatedHours != nil {
		task.EstimatedHours = *update.EstimatedHours
	}
	if update.ActualHours != nil {
		task.ActualHours = *update.ActualHours
	}
	if update.Dependencies != nil {
		task.Dependencies = *update.Dependencies
	}
	if update.BlockedBy != nil {
		task.BlockedBy = *update.BlockedBy
	}
	if update.Tags != nil {
		task.Tags = *update.Tags
	}
	if update.IsToday != nil {
		task.IsToday = *update.IsToday
	}
	task.UpdatedAt = nowUTC()

	deps, blocked, tags, err := encodeTaskLists(task)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET milestone_id = ?, title = ?, description = ?, status = ?,
			priority = ?, due_date = ?, start_date = ?, estimated_hours = ?,
			actual_hours = ?, dependencies = ?, blocked_by = ?, tags = ?,
			is_today = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		task.MilestoneID, task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.StartDate, task.EstimatedHours, task.ActualHours,
		deps, blocked, tags, boolToInt(task.IsToday), task.CompletedAt,
		task.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
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

const taskSelect = `
	SELECT id, project_id, milestone_id, parent_task_id, title, description,
		status, priority, due_date, start_date, estimated_hours, actual_hours,
		dependencies, blocked_by, tags, is_today, completed_at, created_at,
		updated_at
	FROM tasks`

func scanTask(row rowScanner) (*Task, error) {
	var task Task
	var milestoneID, parentTaskID, completedAt sql.NullString
	var depsJSON, blockedJSON, tagsJSON string
	var isToday int

	err := row.Scan(&task.ID, &task.ProjectID, &milestoneID, &parentTaskID,
		&task.Title, &task.Description, &task.Status, &task.Priority,
		&task.DueDate, &task.StartDate, &task.EstimatedHours, &task.ActualHours,
		&depsJSON, &blockedJSON, &tagsJSON, &isToday, &completedAt,
		&task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if milestoneID.Valid {
		task.MilestoneID = &milestoneID.String
	}
	if parentTaskID.Valid {
		task.ParentTaskID = &parentTaskID.String
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.String
	}
	task.IsToday = isToday != 0

	if err := json.Unmarshal([]byte(depsJSON), &task.Dependencies); err != nil {
		task.Dependencies = []string{}
	}
	if err := json.Unmarshal([]byte(blockedJSON), &task.BlockedBy); err != nil {
		task.BlockedBy = []string{}
	}
	if err := json.Unmarshal([]byte(tagsJSON), &task.Tags); err != nil {
		task.Tags = []string{}
	}
	return &task, nil
}

func encodeTaskLists(task *Task) (deps, blocked, tags string, err error) {
	depsJSON, err := json.Marshal(orEmpty(task.Dependencies))
	if err != nil {
		return "", "", "", fmt.Errorf("encode dependencies: %w", err)
	}
	blockedJSON, err := json.Marshal(orEmpty(task.BlockedBy))
	if err != nil {
		return "", "", "", fmt.Errorf("encode blocked_by: %w", err)
	}
	tagsJSON, err := json.Marshal(orEmpty(task.Tags))
	if err != nil {
		return "", "", "", fmt.Errorf("encode tags: %w", err)
	}
	return string(depsJSON), string(blockedJSON), string(tagsJSON), nil
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
