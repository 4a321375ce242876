package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(db db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: db}
}

const assignmentColumns = `id, project_id, resource_id, start_date, end_date, travel_out_days, travel_back_days,
	override, override_reason, notes, created_at, updated_at`

// effectiveOverlap filters on the travel-widened range. ISO dates compare
// correctly as text.
const effectiveOverlap = `date(start_date, '-' || travel_out_days || ' days') <= ?
	AND date(end_date, '+' || travel_back_days || ' days') >= ?`

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (` + assignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		a.ResourceID,
		a.StartDate.Format(dateLayout),
		a.EndDate.Format(dateLayout),
		a.TravelOutDays,
		a.TravelBackDays,
		boolToInt(a.Override),
		a.OverrideReason,
		a.Notes,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "assignment", id)
	}
	return a, nil
}

func (r *SQLiteAssignmentRepo) ListByResource(ctx context.Context, resourceID string) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE resource_id = ? ORDER BY start_date, id`
	return r.list(ctx, "listing assignments by resource", query, resourceID)
}

func (r *SQLiteAssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE project_id = ? ORDER BY start_date, id`
	return r.list(ctx, "listing assignments by project", query, projectID)
}

func (r *SQLiteAssignmentRepo) ListOverlapping(ctx context.Context, resourceID string, window domain.DateRange) ([]*domain.Assignment, error) {
	end := window.End.Format(dateLayout)
	start := window.Start.Format(dateLayout)
	if resourceID == "" {
		query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE ` + effectiveOverlap +
			` ORDER BY resource_id, start_date, id`
		return r.list(ctx, "listing overlapping assignments", query, end, start)
	}
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE resource_id = ? AND ` + effectiveOverlap +
		` ORDER BY start_date, id`
	return r.list(ctx, "listing overlapping assignments", query, resourceID, end, start)
}

func (r *SQLiteAssignmentRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments WHERE project_id = ?`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting assignments by project: %w", err)
	}
	return n, nil
}

func (r *SQLiteAssignmentRepo) CountByResource(ctx context.Context, resourceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments WHERE resource_id = ?`, resourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting assignments by resource: %w", err)
	}
	return n, nil
}

func (r *SQLiteAssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	query := `UPDATE assignments SET project_id = ?, resource_id = ?, start_date = ?, end_date = ?,
		travel_out_days = ?, travel_back_days = ?, override = ?, override_reason = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		a.ProjectID,
		a.ResourceID,
		a.StartDate.Format(dateLayout),
		a.EndDate.Format(dateLayout),
		a.TravelOutDays,
		a.TravelBackDays,
		boolToInt(a.Override),
		a.OverrideReason,
		a.Notes,
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func scanAssignment(s rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var startStr, endStr, createdStr, updatedStr string
	var override int

	if err := s.Scan(
		&a.ID, &a.ProjectID, &a.ResourceID, &startStr, &endStr, &a.TravelOutDays, &a.TravelBackDays,
		&override, &a.OverrideReason, &a.Notes, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}
	a.Override = intToBool(override)

	var err error
	if a.StartDate, err = parseDate(startStr, "start_date"); err != nil {
		return nil, err
	}
	if a.EndDate, err = parseDate(endStr, "end_date"); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTimestamp(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &a, nil
}
