package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

var (
	// ErrNotFound is returned when no todo has the requested id.
	ErrNotFound = errors.New("todo not found")
	// ErrConflict is returned when a write would duplicate an existing name.
	ErrConflict = errors.New("todo name already exists")
)

const pqUniqueViolation = "23505"

// Todos reads and writes the todo table.
type Todos struct {
	db *sql.DB
}

// NewTodos returns a repository over db. The schema must already exist.
func NewTodos(db *sql.DB) *Todos {
	return &Todos{db: db}
}

// List returns all todos ordered by id. The result is never nil.
func (r *Todos) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM todo ORDER BY id`)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Get returns the todo with the given id.
func (r *Todos) Get(ctx context.Context, id int64) (models.Todo, error) {
	var t models.Todo
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM todo WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, fmt.Errorf("get todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Error(ctx, "Repository Get failed", "error", err, "id", id)
		return models.Todo{}, err
	}
	return t, nil
}

// Create inserts a new todo and returns it with its assigned id.
func (r *Todos) Create(ctx context.Context, name string) (models.Todo, error) {
	var t models.Todo
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO todo (name) VALUES ($1) RETURNING id, name`, name).Scan(&t.ID, &t.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Todo{}, fmt.Errorf("create todo %q: %w", name, ErrConflict)
		}
		logger.Error(ctx, "Repository Create failed", "error", err)
		return models.Todo{}, err
	}
	return t, nil
}

// Update renames an existing todo.
func (r *Todos) Update(ctx context.Context, id int64, name string) (models.Todo, error) {
	var t models.Todo
	err := r.db.QueryRowContext(ctx,
		`UPDATE todo SET name = $1 WHERE id = $2 RETURNING id, name`, name, id).Scan(&t.ID, &t.Name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Todo{}, fmt.Errorf("update todo %d: %w", id, ErrNotFound)
	case err != nil && isUniqueViolation(err):
		return models.Todo{}, fmt.Errorf("update todo %d to %q: %w", id, name, ErrConflict)
	case err != nil:
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return models.Todo{}, err
	}
	return t, nil
}

// Delete removes a todo by id.
func (r *Todos) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todo WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete todo %d: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of rows in the table.
func (r *Todos) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todo`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping checks the database is reachable.
func (r *Todos) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// SQLite reports constraint failures only through the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
