package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
)

// SQLiteResourceRepo implements ResourceRepo using a SQLite database.
type SQLiteResourceRepo struct {
	db db.DBTX
}

func NewSQLiteResourceRepo(db db.DBTX) *SQLiteResourceRepo {
	return &SQLiteResourceRepo{db: db}
}

const resourceColumns = `id, name, email, category, active, created_at, updated_at`

func (r *SQLiteResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	query := `INSERT INTO resources (` + resourceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.Name,
		nullableString(res.Email),
		string(res.Category),
		boolToInt(res.Active),
		res.CreatedAt.Format(time.RFC3339),
		res.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting resource: %w", err)
	}
	return nil
}

func (r *SQLiteResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "resource", id)
	}
	return res, nil
}

// GetByEmail matches case-insensitively.
func (r *SQLiteResourceRepo) GetByEmail(ctx context.Context, email string) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE LOWER(email) = LOWER(?)`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "resource", email)
	}
	return res, nil
}

func (r *SQLiteResourceRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY name, id`
	if activeOnly {
		query = `SELECT ` + resourceColumns + ` FROM resources WHERE active = 1 ORDER BY name, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var out []*domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return out, nil
}

func (r *SQLiteResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	query := `UPDATE resources SET name = ?, email = ?, category = ?, active = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		res.Name,
		nullableString(res.Email),
		string(res.Category),
		boolToInt(res.Active),
		res.UpdatedAt.Format(time.RFC3339),
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}
	return nil
}

func (r *SQLiteResourceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	return nil
}

func scanResource(s rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	var email sql.NullString
	var category, createdStr, updatedStr string
	var active int

	if err := s.Scan(&res.ID, &res.Name, &email, &category, &active, &createdStr, &updatedStr); err != nil {
		return nil, err
	}
	res.Email = parseNullableString(email)
	res.Category = domain.ResourceCategory(category)
	res.Active = intToBool(active)

	var err error
	if res.CreatedAt, err = parseTimestamp(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if res.UpdatedAt, err = parseTimestamp(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &res, nil
}
