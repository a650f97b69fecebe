package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore is a Repository backed by the tasks table of a SQL database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a task store over an opened and migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const taskColumns = `id, title, description, priority, status, due_date, created_at, tags_json, assigned_to`

// Seed inserts tasks that are not present yet.
func (s *SQLStore) Seed(ctx context.Context, tasks []Task) error {
	for _, t := range tasks {
		if _, err := s.Get(ctx, t.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := s.Add(ctx, t); err != nil {
			return fmt.Errorf("seed task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (s *SQLStore) Add(ctx context.Context, t Task) error {
	tagsJSON, err := marshalTags(t.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate,
		t.CreatedAt.UTC().Format(time.RFC3339Nano), tagsJSON, t.AssignedTo)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *SQLStore) All(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, p Patch) (Task, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Task{}, fmt.Errorf("begin update task: %w", err)
	}
	row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id)
	t, err := scanTask(row)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	p.Apply(&t)
	tagsJSON, err := marshalTags(t.Tags)
	if err != nil {
		_ = tx.Rollback()
		return Task{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET title=?, description=?, priority=?, status=?, due_date=?, tags_json=?, assigned_to=? WHERE id=?`,
		t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate, tagsJSON, t.AssignedTo, id); err != nil {
		_ = tx.Rollback()
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Task{}, fmt.Errorf("commit update task: %w", err)
	}
	return t, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var priority, status, createdAt, tagsJSON string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &t.DueDate, &createdAt, &tagsJSON, &t.AssignedTo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.Priority = Priority(priority)
	t.Status = Status(status)
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	t.CreatedAt = created
	if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
		return Task{}, fmt.Errorf("parse tags: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}
