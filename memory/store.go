package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is the SQLite-backed persistence layer for projects, milestones,
// tasks and planning sessions. Chat turns never touch it; they operate on
// caller-supplied state only.
type Store struct {
	db   *sql.DB
	path string
}

func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL DEFAULT 'default_user',
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		goal            TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'active',
		start_date      TEXT NOT NULL DEFAULT '',
		target_end_date TEXT NOT NULL DEFAULT '',
		tags            TEXT NOT NULL DEFAULT '[]',
		color           TEXT NOT NULL DEFAULT '',
		context         TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS milestones (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		order_num    INTEGER NOT NULL DEFAULT 0,
		due_date     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo',
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		milestone_id    TEXT REFERENCES milestones(id) ON DELETE SET NULL,
		parent_task_id  TEXT,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'todo',
		priority        TEXT NOT NULL DEFAULT 'medium',
		due_date        TEXT NOT NULL DEFAULT '',
		start_date      TEXT NOT NULL DEFAULT '',
		estimated_hours REAL NOT NULL DEFAULT 0,
		actual_hours    REAL NOT NULL DEFAULT 0,
		dependencies    TEXT NOT NULL DEFAULT '[]',
		blocked_by      TEXT NOT NULL DEFAULT '[]',
		tags            TEXT NOT NULL DEFAULT '[]',
		is_today        INTEGER NOT NULL DEFAULT 0,
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS planning_sessions (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase      TEXT NOT NULL DEFAULT 'intake',
		notes      TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_milestone ON tasks(milestone_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_sessions_project ON planning_sessions(project_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
