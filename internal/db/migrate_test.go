package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-06-16T00:00:00Z"

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"template_items", "template_dependencies", "homes", "home_tasks", "punch_items"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_template_items_sort",
		"idx_template_deps_item",
		"idx_home_tasks_home",
		"idx_home_tasks_template",
		"idx_punch_items_task",
		"idx_punch_items_home_status",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "homeplan.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func insertItem(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO template_items (id, name, duration_days, sort_order, created_at, updated_at)
		VALUES (?, ?, 1, 0, ?, ?)`, id, "Item "+id, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_RejectsNonPositiveDuration(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO template_items (id, name, duration_days, sort_order, created_at, updated_at)
		VALUES ('x', 'X', 0, 0, ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_RejectsInvalidGateScope(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO template_items (id, name, duration_days, gate_scope, created_at, updated_at)
		VALUES ('x', 'X', 1, 'upstream', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_RejectsSelfDependency(t *testing.T) {
	db := openTestDB(t)
	insertItem(t, db, "a")

	_, err := db.Exec(`INSERT INTO template_dependencies (depends_on_item_id, template_item_id) VALUES ('a', 'a')`)
	assert.Error(t, err)
}

func TestMigrate_DeletingItemCascadesDependencies(t *testing.T) {
	db := openTestDB(t)
	insertItem(t, db, "a")
	insertItem(t, db, "b")
	_, err := db.Exec(`INSERT INTO template_dependencies (depends_on_item_id, template_item_id) VALUES ('a', 'b')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM template_items WHERE id = 'a'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM template_dependencies`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_ReferencedItemCannotBeDeleted(t *testing.T) {
	db := openTestDB(t)
	insertItem(t, db, "a")
	_, err := db.Exec(`INSERT INTO homes (id, label, start_date, created_at, updated_at)
		VALUES ('h', 'Lot 1', '2025-06-16', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO home_tasks (id, home_id, template_item_id, name_snapshot,
		duration_days_snapshot, sort_order_snapshot, created_at, updated_at)
		VALUES ('t', 'h', 'a', 'Item a', 1, 0, ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM template_items WHERE id = 'a'`)
	assert.Error(t, err, "home_tasks reference should block the delete")
}

func TestMigrate_RejectsInvalidTaskStatus(t *testing.T) {
	db := openTestDB(t)
	insertItem(t, db, "a")
	_, err := db.Exec(`INSERT INTO homes (id, label, start_date, created_at, updated_at)
		VALUES ('h', 'Lot 1', '2025-06-16', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO home_tasks (id, home_id, template_item_id, name_snapshot,
		duration_days_snapshot, sort_order_snapshot, status, created_at, updated_at)
		VALUES ('t', 'h', 'a', 'Item a', 1, 0, 'paused', ?, ?)`, ts, ts)
	assert.Error(t, err)
}
