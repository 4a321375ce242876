package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, description, status, start_date, end_date, manager_id,
	budget, revenue, costs, deleted_at, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Description,
		string(p.Status),
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		nullableString(p.ManagerID),
		nullableDecimal(p.Budget),
		nullableDecimal(p.Revenue),
		nullableDecimal(p.Costs),
		nullableTimeToString(p.DeletedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE deleted_at IS NULL ORDER BY start_date, id`
	if includeDeleted {
		query = `SELECT ` + projectColumns + ` FROM projects ORDER BY start_date, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET description = ?, status = ?, start_date = ?, end_date = ?, manager_id = ?,
		budget = ?, revenue = ?, costs = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Description,
		string(p.Status),
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		nullableString(p.ManagerID),
		nullableDecimal(p.Budget),
		nullableDecimal(p.Revenue),
		nullableDecimal(p.Costs),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// SoftDelete cancels the project and stamps deleted_at; the row stays.
func (r *SQLiteProjectRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stamp := at.UTC().Format(time.RFC3339)
	query := `UPDATE projects SET status = 'CANCELLED', deleted_at = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, stamp, stamp, id); err != nil {
		return fmt.Errorf("soft-deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func scanProject(s rowScanner) (*domain.Project, error) {
	var p domain.Project
	var statusStr, startStr, endStr, createdStr, updatedStr string
	var managerID, budget, revenue, costs, deletedAt sql.NullString

	if err := s.Scan(
		&p.ID, &p.Description, &statusStr, &startStr, &endStr, &managerID,
		&budget, &revenue, &costs, &deletedAt, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.ManagerID = parseNullableString(managerID)
	p.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)

	var err error
	if p.StartDate, err = parseDate(startStr, "start_date"); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate(endStr, "end_date"); err != nil {
		return nil, err
	}
	if p.Budget, err = parseNullableDecimal(budget, "budget"); err != nil {
		return nil, err
	}
	if p.Revenue, err = parseNullableDecimal(revenue, "revenue"); err != nil {
		return nil, err
	}
	if p.Costs, err = parseNullableDecimal(costs, "costs"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
