package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is re-applied on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS template_items (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		duration_days    INTEGER NOT NULL CHECK(duration_days > 0),
		sort_order       INTEGER NOT NULL DEFAULT 0,
		category         TEXT,
		is_critical_gate INTEGER NOT NULL DEFAULT 0,
		gate_scope       TEXT NOT NULL DEFAULT 'downstream_only'
		                 CHECK(gate_scope IN ('downstream_only','all')),
		gate_block_mode  TEXT NOT NULL DEFAULT 'schedule_only'
		                 CHECK(gate_block_mode IN ('schedule_only','schedule_and_confirm','all')),
		gate_name        TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_template_items_sort ON template_items(sort_order)`,

	`CREATE TABLE IF NOT EXISTS template_dependencies (
		depends_on_item_id TEXT NOT NULL REFERENCES template_items(id) ON DELETE CASCADE,
		template_item_id   TEXT NOT NULL REFERENCES template_items(id) ON DELETE CASCADE,
		PRIMARY KEY (depends_on_item_id, template_item_id),
		CHECK(depends_on_item_id != template_item_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_template_deps_item ON template_dependencies(template_item_id)`,

	`CREATE TABLE IF NOT EXISTS homes (
		id                       TEXT PRIMARY KEY,
		label                    TEXT NOT NULL,
		start_date               TEXT NOT NULL,
		forecast_completion_date TEXT,
		target_completion_date   TEXT,
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS home_tasks (
		id                     TEXT PRIMARY KEY,
		home_id                TEXT NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
		template_item_id       TEXT NOT NULL REFERENCES template_items(id),
		name_snapshot          TEXT NOT NULL,
		duration_days_snapshot INTEGER NOT NULL,
		sort_order_snapshot    INTEGER NOT NULL,
		category_snapshot      TEXT,
		status                 TEXT NOT NULL DEFAULT 'unscheduled'
		                       CHECK(status IN ('unscheduled','scheduled','pending_confirm','confirmed','completed','canceled','declined')),
		scheduled_date         TEXT,
		contractor_id          TEXT,
		completed_at           TEXT,
		forecast_date          TEXT,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL,
		UNIQUE (home_id, template_item_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_home_tasks_home ON home_tasks(home_id)`,
	`CREATE INDEX IF NOT EXISTS idx_home_tasks_template ON home_tasks(template_item_id)`,

	`CREATE TABLE IF NOT EXISTS punch_items (
		id                   TEXT PRIMARY KEY,
		home_id              TEXT NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
		related_home_task_id TEXT NOT NULL REFERENCES home_tasks(id) ON DELETE CASCADE,
		category             TEXT,
		title                TEXT NOT NULL,
		status               TEXT NOT NULL DEFAULT 'open'
		                     CHECK(status IN ('open','ready_for_review','closed')),
		severity             TEXT NOT NULL DEFAULT 'medium'
		                     CHECK(severity IN ('low','medium','high','critical')),
		closed_at            TEXT,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_punch_items_task ON punch_items(related_home_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_punch_items_home_status ON punch_items(home_id, status)`,
}
