package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteUnavailabilityRepo implements UnavailabilityRepo using a SQLite database.
type SQLiteUnavailabilityRepo struct {
	db db.DBTX
}

func NewSQLiteUnavailabilityRepo(db db.DBTX) *SQLiteUnavailabilityRepo {
	return &SQLiteUnavailabilityRepo{db: db}
}

const unavailabilityColumns = `id, resource_id, type, start_date, end_date, approval, reason, created_at`

func (r *SQLiteUnavailabilityRepo) Create(ctx context.Context, u *domain.Unavailability) error {
	query := `INSERT INTO unavailability (` + unavailabilityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.ResourceID,
		string(u.Type),
		u.StartDate.Format(dateLayout),
		u.EndDate.Format(dateLayout),
		string(u.Approval),
		u.Reason,
		u.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting unavailability: %w", err)
	}
	return nil
}

func (r *SQLiteUnavailabilityRepo) GetByID(ctx context.Context, id string) (*domain.Unavailability, error) {
	query := `SELECT ` + unavailabilityColumns + ` FROM unavailability WHERE id = ?`
	u, err := scanUnavailability(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "unavailability", id)
	}
	return u, nil
}

func (r *SQLiteUnavailabilityRepo) ListByResource(ctx context.Context, resourceID string) ([]*domain.Unavailability, error) {
	query := `SELECT ` + unavailabilityColumns + ` FROM unavailability WHERE resource_id = ? ORDER BY start_date, id`
	return r.list(ctx, "listing unavailability", query, resourceID)
}

// ListOverlapping returns every record of the resource touching window,
// rejected ones included; callers decide what blocks.
func (r *SQLiteUnavailabilityRepo) ListOverlapping(ctx context.Context, resourceID string, window domain.DateRange) ([]*domain.Unavailability, error) {
	query := `SELECT ` + unavailabilityColumns + ` FROM unavailability
		WHERE resource_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date, id`
	return r.list(ctx, "listing overlapping unavailability", query,
		resourceID, window.End.Format(dateLayout), window.Start.Format(dateLayout))
}

func (r *SQLiteUnavailabilityRepo) SetApproval(ctx context.Context, id string, state domain.ApprovalState) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE unavailability SET approval = ? WHERE id = ?`, string(state), id); err != nil {
		return fmt.Errorf("updating approval: %w", err)
	}
	return nil
}

func (r *SQLiteUnavailabilityRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unavailability WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting unavailability: %w", err)
	}
	return nil
}

func (r *SQLiteUnavailabilityRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Unavailability, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*domain.Unavailability
	for rows.Next() {
		u, err := scanUnavailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unavailability row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unavailability: %w", err)
	}
	return out, nil
}

func scanUnavailability(s rowScanner) (*domain.Unavailability, error) {
	var u domain.Unavailability
	var typ, startStr, endStr, approval, createdStr string

	if err := s.Scan(&u.ID, &u.ResourceID, &typ, &startStr, &endStr, &approval, &u.Reason, &createdStr); err != nil {
		return nil, err
	}
	u.Type = domain.UnavailabilityType(typ)
	u.Approval = domain.ApprovalState(approval)

	var err error
	if u.StartDate, err = parseDate(startStr, "start_date"); err != nil {
		return nil, err
	}
	if u.EndDate, err = parseDate(endStr, "end_date"); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	return &u, nil
}
