package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PlanningSessionCreate struct {
	ProjectID string   `json:"projectId"`
	Phase     string   `json:"phase"`
	Notes     []string `json:"notes"`
}

func (s *Store) CreatePlanningSession(ctx context.Context, create PlanningSessionCreate) (*PlanningSession, error) {
	if create.ProjectID == "" {
		return nil, fmt.Errorf("planning session project id is required")
	}
	if create.Phase == "" {
		create.Phase = "intake"
	}

	now := nowUTC()
	session := &PlanningSession{
		ID:        uuid.NewString(),
		ProjectID: create.ProjectID,
		Phase:     create.Phase,
		Notes:     orEmpty(create.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	notesJSON, err := json.Marshal(session.Notes)
	if err != nil {
		return nil, fmt.Errorf("encode session notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO planning_sessions (id, project_id, phase, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.ProjectID, session.Phase, string(notesJSON),
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert planning session: %w", err)
	}
	return session, nil
}

func (s *Store) GetPlanningSession(ctx context.Context, id string) (*PlanningSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, phase, notes, created_at, updated_at
		FROM planning_sessions WHERE id = ?`, id)
	return scanPlanningSession(row)
}

func (s *Store) ListPlanningSessions(ctx context.Context, projectID string) ([]*PlanningSession, error) {
	query := `
		SELECT id, project_id, phase, notes, created_at, updated_at
		FROM planning_sessions`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query planning sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*PlanningSession{}
	for rows.Next() {
		session, err := scanPlanningSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Store) UpdatePlanningSession(ctx context.Context, id string, update PlanningSessionUpdate) (*PlanningSession, error) {
	session, err := s.GetPlanningSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Phase != nil {
		session.Phase = *update.Phase
	}
	if update.Notes != nil {
		session.Notes = *update.Notes
	}
	session.UpdatedAt = nowUTC()

	notesJSON, err := json.Marshal(orEmpty(session.Notes))
	if err != nil {
		return nil, fmt.Errorf("encode session notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE planning_sessions SET phase = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		session.Phase, string(notesJSON), session.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update planning session: %w", err)
	}
	return session, nil
}

func (s *Store) DeletePlanningSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM planning_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete planning session: %w", err)
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

func scanPlanningSession(row rowScanner) (*PlanningSession, error) {
	var session PlanningSession
	var notesJSON string

	err := row.Scan(&session.ID, &session.ProjectID, &session.Phase, &notesJSON,
		&session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan planning session: %w", err)
	}

	if err := json.Unmarshal([]byte(notesJSON), &session.Notes); err != nil {
		session.Notes = []string{}
	}
	return &session, nil
}
