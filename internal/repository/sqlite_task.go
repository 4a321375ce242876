package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, project_id, parent_id, title, start_date, end_date, status, percent_complete, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Title,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		string(t.Status),
		t.PercentComplete,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, title = ?, start_date = ?, end_date = ?, status = ?,
		percent_complete = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(t.ParentID),
		t.Title,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		string(t.Status),
		t.PercentComplete,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullString
	var startStr, endStr, status, createdStr, updatedStr string

	if err := s.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Title, &startStr, &endStr, &status,
		&t.PercentComplete, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}
	t.ParentID = parseNullableString(parentID)
	t.Status = domain.TaskStatus(status)

	var err error
	if t.StartDate, err = parseDate(startStr, "start_date"); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseDate(endStr, "end_date"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
