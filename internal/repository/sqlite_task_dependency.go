package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteTaskDependencyRepo implements TaskDependencyRepo using a SQLite database.
type SQLiteTaskDependencyRepo struct {
	db db.DBTX
}

func NewSQLiteTaskDependencyRepo(db db.DBTX) *SQLiteTaskDependencyRepo {
	return &SQLiteTaskDependencyRepo{db: db}
}

func (r *SQLiteTaskDependencyRepo) Create(ctx context.Context, d *domain.TaskDependency) error {
	typ := d.Type
	if typ == "" {
		typ = domain.FinishToStart
	}
	query := `INSERT INTO task_dependencies (predecessor_id, successor_id, type, lag_days) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, d.PredecessorID, d.SuccessorID, string(typ), d.LagDays); err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteTaskDependencyRepo) Delete(ctx context.Context, predecessorID, successorID string) error {
	query := `DELETE FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?`
	res, err := r.db.ExecContext(ctx, query, predecessorID, successorID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dependency %s -> %s: %w", predecessorID, successorID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.TaskDependency, error) {
	query := `SELECT d.predecessor_id, d.successor_id, d.type, d.lag_days
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.predecessor_id
		WHERE t.project_id = ?
		ORDER BY d.predecessor_id, d.successor_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteTaskDependencyRepo) ListSuccessors(ctx context.Context, taskID string) ([]domain.TaskDependency, error) {
	query := `SELECT predecessor_id, successor_id, type, lag_days
		FROM task_dependencies WHERE predecessor_id = ? ORDER BY successor_id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing successors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteTaskDependencyRepo) ListPredecessors(ctx context.Context, taskID string) ([]domain.TaskDependency, error) {
	query := `SELECT predecessor_id, successor_id, type, lag_days
		FROM task_dependencies WHERE successor_id = ? ORDER BY predecessor_id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func scanDependencies(rows *sql.Rows) ([]domain.TaskDependency, error) {
	var deps []domain.TaskDependency
	for rows.Next() {
		var d domain.TaskDependency
		var typ string
		if err := rows.Scan(&d.PredecessorID, &d.SuccessorID, &typ, &d.LagDays); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Type = domain.DependencyType(typ)
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
