package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ts = "2024-01-01T00:00:00Z"

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProjectAndResource(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO resources (id, name, category, created_at, updated_at)
		VALUES ('r1', 'Ada', 'INTERNAL', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, start_date, end_date, created_at, updated_at)
		VALUES ('PRJ-2024-0001', '2024-01-01', '2024-03-31', ?, ?)`, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMigratedDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openMigratedDB(t)

	expected := []string{"projects", "resources", "assignments", "unavailability", "tasks", "task_dependencies", "open_items"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openMigratedDB(t)

	expected := []string{
		"idx_resources_email",
		"idx_assignments_resource",
		"idx_assignments_project",
		"idx_unavailability_resource",
		"idx_tasks_project",
		"idx_task_dependencies_successor",
		"idx_open_items_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_ForeignKeysEnabled(t *testing.T) {
	db := openMigratedDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_MemoryJournal(t *testing.T) {
	// WAL only applies to file databases; in-memory reports "memory".
	db := openMigratedDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileDatabaseUsesWAL(t *testing.T) {
	db, err := OpenDB(t.TempDir() + "/nested/crewplan.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_ProjectDateCheck(t *testing.T) {
	db := openMigratedDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, start_date, end_date, created_at, updated_at)
		VALUES ('PRJ-2024-0002', '2024-02-01', '2024-01-01', ?, ?)`, ts, ts)
	assert.Error(t, err, "start after end violates the CHECK constraint")
}

func TestMigrate_StatusCheckConstraints(t *testing.T) {
	db := openMigratedDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, status, start_date, end_date, created_at, updated_at)
		VALUES ('PRJ-2024-0003', 'ON_HOLD', '2024-01-01', '2024-01-02', ?, ?)`, ts, ts)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO resources (id, name, category, created_at, updated_at)
		VALUES ('r9', 'X', 'VOLUNTEER', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_AssignmentRequiresExistingParents(t *testing.T) {
	db := openMigratedDB(t)

	_, err := db.Exec(`INSERT INTO assignments (id, project_id, resource_id, start_date, end_date, created_at, updated_at)
		VALUES ('a1', 'PRJ-2024-0404', 'r404', '2024-01-01', '2024-01-02', ?, ?)`, ts, ts)
	assert.Error(t, err, "foreign keys reject unknown project and resource")
}

func TestMigrate_AssignmentDefaults(t *testing.T) {
	db := openMigratedDB(t)
	seedProjectAndResource(t, db)

	_, err := db.Exec(`INSERT INTO assignments (id, project_id, resource_id, start_date, end_date, created_at, updated_at)
		VALUES ('a1', 'PRJ-2024-0001', 'r1', '2024-01-01', '2024-01-05', ?, ?)`, ts, ts)
	require.NoError(t, err)

	var travelOut, travelBack, override int
	var notes string
	err = db.QueryRow(`SELECT travel_out_days, travel_back_days, override, notes FROM assignments WHERE id = 'a1'`).
		Scan(&travelOut, &travelBack, &override, &notes)
	require.NoError(t, err)
	assert.Zero(t, travelOut)
	assert.Zero(t, travelBack)
	assert.Zero(t, override)
	assert.Equal(t, "", notes)
}

func TestMigrate_DependencyPrimaryKey(t *testing.T) {
	db := openMigratedDB(t)
	seedProjectAndResource(t, db)

	for _, id := range []string{"t1", "t2"} {
		_, err := db.Exec(`INSERT INTO tasks (id, project_id, title, start_date, end_date, created_at, updated_at)
			VALUES (?, 'PRJ-2024-0001', ?, '2024-01-01', '2024-01-02', ?, ?)`, id, id, ts, ts)
		require.NoError(t, err)
	}

	_, err := db.Exec(`INSERT INTO task_dependencies (predecessor_id, successor_id) VALUES ('t1', 't2')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO task_dependencies (predecessor_id, successor_id, type) VALUES ('t1', 't2', 'START_TO_START')`)
	assert.Error(t, err, "one edge per ordered pair")

	var typ string
	var lag int
	require.NoError(t, db.QueryRow(`SELECT type, lag_days FROM task_dependencies`).Scan(&typ, &lag))
	assert.Equal(t, "FINISH_TO_START", typ)
	assert.Zero(t, lag)
}

func TestMigrate_DeletingTaskDropsItsEdges(t *testing.T) {
	db := openMigratedDB(t)
	seedProjectAndResource(t, db)
	for _, id := range []string{"t1", "t2"} {
		_, err := db.Exec(`INSERT INTO tasks (id, project_id, title, start_date, end_date, created_at, updated_at)
			VALUES (?, 'PRJ-2024-0001', ?, '2024-01-01', '2024-01-02', ?, ?)`, id, id, ts, ts)
		require.NoError(t, err)
	}
	_, err := db.Exec(`INSERT INTO task_dependencies (predecessor_id, successor_id) VALUES ('t1', 't2')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM tasks WHERE id = 't1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_dependencies`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_UpgradeAddsAssignmentNotes(t *testing.T) {
	// A database created before assignment notes existed.
	legacy, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	legacy.SetMaxOpenConns(1)
	t.Cleanup(func() { legacy.Close() })

	_, err = legacy.Exec(`CREATE TABLE assignments (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL,
		resource_id      TEXT NOT NULL,
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		travel_out_days  INTEGER NOT NULL DEFAULT 0,
		travel_back_days INTEGER NOT NULL DEFAULT 0,
		override         INTEGER NOT NULL DEFAULT 0,
		override_reason  TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO assignments (id, project_id, resource_id, start_date, end_date, created_at, updated_at)
		VALUES ('a1', 'PRJ-2024-0001', 'r1', '2024-01-01', '2024-01-05', ?, ?)`, ts, ts)
	require.NoError(t, err)

	require.NoError(t, Migrate(legacy))
	require.NoError(t, Migrate(legacy), "second run tolerates the existing column")

	var notes, start string
	require.NoError(t, legacy.QueryRow(`SELECT notes, start_date FROM assignments WHERE id = 'a1'`).Scan(&notes, &start))
	assert.Equal(t, "", notes)
	assert.Equal(t, "2024-01-01", start, "existing rows survive the upgrade")
}
