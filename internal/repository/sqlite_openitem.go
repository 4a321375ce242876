package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteOpenItemRepo implements OpenItemRepo using a SQLite database.
type SQLiteOpenItemRepo struct {
	db db.DBTX
}

func NewSQLiteOpenItemRepo(db db.DBTX) *SQLiteOpenItemRepo {
	return &SQLiteOpenItemRepo{db: db}
}

const openItemColumns = `id, project_id, title, owner_id, priority, status, due_date, resolved_at, created_at, updated_at`

func (r *SQLiteOpenItemRepo) Create(ctx context.Context, o *domain.OpenItem) error {
	query := `INSERT INTO open_items (` + openItemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.ProjectID,
		o.Title,
		nullableString(o.OwnerID),
		string(o.Priority),
		string(o.Status),
		nullableTimeToString(o.DueDate, dateLayout),
		nullableTimeToString(o.ResolvedAt, time.RFC3339),
		o.CreatedAt.Format(time.RFC3339),
		o.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting open item: %w", err)
	}
	return nil
}

func (r *SQLiteOpenItemRepo) GetByID(ctx context.Context, id string) (*domain.OpenItem, error) {
	query := `SELECT ` + openItemColumns + ` FROM open_items WHERE id = ?`
	o, err := scanOpenItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "open item", id)
	}
	return o, nil
}

// ListByProject orders by priority (critical first), then due date.
func (r *SQLiteOpenItemRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.OpenItem, error) {
	query := `SELECT ` + openItemColumns + ` FROM open_items WHERE project_id = ?
		ORDER BY CASE priority WHEN 'CRITICAL' THEN 0 WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 ELSE 3 END,
			due_date IS NULL, due_date, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing open items: %w", err)
	}
	defer rows.Close()

	var out []*domain.OpenItem
	for rows.Next() {
		o, err := scanOpenItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning open item row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating open items: %w", err)
	}
	return out, nil
}

func (r *SQLiteOpenItemRepo) Update(ctx context.Context, o *domain.OpenItem) error {
	query := `UPDATE open_items SET title = ?, owner_id = ?, priority = ?, status = ?, due_date = ?,
		resolved_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		o.Title,
		nullableString(o.OwnerID),
		string(o.Priority),
		string(o.Status),
		nullableTimeToString(o.DueDate, dateLayout),
		nullableTimeToString(o.ResolvedAt, time.RFC3339),
		o.UpdatedAt.Format(time.RFC3339),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating open item: %w", err)
	}
	return nil
}

func (r *SQLiteOpenItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM open_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting open item: %w", err)
	}
	return nil
}

func scanOpenItem(s rowScanner) (*domain.OpenItem, error) {
	var o domain.OpenItem
	var ownerID, dueDate, resolvedAt sql.NullString
	var priority, status, createdStr, updatedStr string

	if err := s.Scan(
		&o.ID, &o.ProjectID, &o.Title, &ownerID, &priority, &status,
		&dueDate, &resolvedAt, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}
	o.OwnerID = parseNullableString(ownerID)
	o.Priority = domain.OpenItemPriority(priority)
	o.Status = domain.OpenItemStatus(status)
	o.DueDate = parseNullableTime(dueDate, dateLayout)
	o.ResolvedAt = parseNullableTime(resolvedAt, time.RFC3339)

	var err error
	if o.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTimestamp(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &o, nil
}
