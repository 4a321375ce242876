package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run on
// every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT,
		category   TEXT NOT NULL
		           CHECK(category IN ('INTERNAL','FIELD_TECHNICIAN','CONTRACTOR','EXTERNAL')),
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_resources_email ON resources(email) WHERE email IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'PLANNED'
		            CHECK(status IN ('PLANNED','ACTIVE','COMPLETED','DELAYED','CANCELLED')),
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		manager_id  TEXT REFERENCES resources(id) ON DELETE SET NULL,
		budget      TEXT,
		revenue     TEXT,
		costs       TEXT,
		deleted_at  TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id),
		resource_id      TEXT NOT NULL REFERENCES resources(id),
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		travel_out_days  INTEGER NOT NULL DEFAULT 0 CHECK(travel_out_days >= 0),
		travel_back_days INTEGER NOT NULL DEFAULT 0 CHECK(travel_back_days >= 0),
		override         INTEGER NOT NULL DEFAULT 0,
		override_reason  TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_resource ON assignments(resource_id, start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project_id)`,

	`CREATE TABLE IF NOT EXISTS unavailability (
		id          TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		type        TEXT NOT NULL
		            CHECK(type IN ('VACATION','TRAINING','SICK_LEAVE','PERSONAL','OTHER')),
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		approval    TEXT NOT NULL DEFAULT 'PENDING'
		            CHECK(approval IN ('PENDING','APPROVED','REJECTED')),
		reason      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_unavailability_resource ON unavailability(resource_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		title            TEXT NOT NULL,
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'NOT_STARTED'
		                 CHECK(status IN ('NOT_STARTED','IN_PROGRESS','COMPLETED','BLOCKED','CANCELLED')),
		percent_complete INTEGER NOT NULL DEFAULT 0 CHECK(percent_complete BETWEEN 0 AND 100),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type           TEXT NOT NULL DEFAULT 'FINISH_TO_START'
		               CHECK(type IN ('FINISH_TO_START','START_TO_START','FINISH_TO_FINISH','START_TO_FINISH')),
		lag_days       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (predecessor_id, successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_dependencies_successor ON task_dependencies(successor_id)`,

	`CREATE TABLE IF NOT EXISTS open_items (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		owner_id    TEXT REFERENCES resources(id) ON DELETE SET NULL,
		priority    TEXT NOT NULL DEFAULT 'MEDIUM'
		            CHECK(priority IN ('LOW','MEDIUM','HIGH','CRITICAL')),
		status      TEXT NOT NULL DEFAULT 'OPEN'
		            CHECK(status IN ('OPEN','IN_PROGRESS','RESOLVED','CLOSED')),
		due_date    TEXT,
		resolved_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_open_items_project ON open_items(project_id)`,

	// Assignment notes were added after the first release.
	`ALTER TABLE assignments ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
}
