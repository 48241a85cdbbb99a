package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// SQLiteHomeTaskRepo implements HomeTaskRepo using a SQLite database.
type SQLiteHomeTaskRepo struct {
	db db.DBTX
}

// NewSQLiteHomeTaskRepo creates a new SQLiteHomeTaskRepo.
func NewSQLiteHomeTaskRepo(db db.DBTX) *SQLiteHomeTaskRepo {
	return &SQLiteHomeTaskRepo{db: db}
}

// Gate metadata is read from the originating template item on every query,
// so a gate flag changed in the template applies to existing homes. The
// sort order and category stay the task's snapshots.
const (
	gateNameExpr = `COALESCE(NULLIF(ti.gate_name, ''), NULLIF(ti.category, ''), ti.name)`

	// openPunchCountExpr counts open punch items for the task aliased t.
	// Gate tasks also collect punch items filed under their category.
	openPunchCountExpr = `(SELECT COUNT(*) FROM punch_items p
		WHERE p.home_id = t.home_id
		  AND p.status IN ('open', 'ready_for_review')
		  AND (p.related_home_task_id = t.id
		       OR (ti.is_critical_gate = 1 AND t.category_snapshot IS NOT NULL
		           AND p.category = t.category_snapshot)))`

	taskFrom = ` FROM home_tasks t JOIN template_items ti ON ti.id = t.template_item_id`
)

const taskColumns = `t.id, t.home_id, t.template_item_id, t.name_snapshot, t.duration_days_snapshot,
	t.sort_order_snapshot, t.category_snapshot, ti.is_critical_gate, ti.gate_scope, ti.gate_block_mode,
	` + gateNameExpr + `, t.status, t.scheduled_date, t.contractor_id, t.completed_at, t.forecast_date,
	t.created_at, t.updated_at, ` + openPunchCountExpr

func (r *SQLiteHomeTaskRepo) Create(ctx context.Context, t *domain.HomeTask) error {
	query := `INSERT INTO home_tasks (id, home_id, template_item_id, name_snapshot, duration_days_snapshot,
		sort_order_snapshot, category_snapshot, status, scheduled_date, contractor_id, completed_at,
		forecast_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.HomeID,
		t.TemplateItemID,
		t.NameSnapshot,
		t.DurationDaysSnapshot,
		t.SortOrderSnapshot,
		nullableString(t.CategorySnapshot),
		string(t.Status),
		nullableTimeToString(t.ScheduledDate, dateLayout),
		nullableString(t.ContractorID),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableTimeToString(t.ForecastDate, dateLayout),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting home task: %w", err)
	}
	return nil
}

func (r *SQLiteHomeTaskRepo) GetByID(ctx context.Context, id string) (*domain.HomeTask, error) {
	query := `SELECT ` + taskColumns + taskFrom + ` WHERE t.id = ?`
	t, err := scanHomeTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

func (r *SQLiteHomeTaskRepo) ListByHome(ctx context.Context, homeID string) ([]*domain.HomeTask, error) {
	query := `SELECT ` + taskColumns + taskFrom + `
		WHERE t.home_id = ? ORDER BY t.sort_order_snapshot, t.id`
	rows, err := r.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("listing home tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.HomeTask
	for rows.Next() {
		t, err := scanHomeTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning home task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes the mutable state of a task. Snapshot columns are fixed at
// creation and are not touched.
func (r *SQLiteHomeTaskRepo) Update(ctx context.Context, t *domain.HomeTask) error {
	query := `UPDATE home_tasks SET status = ?, scheduled_date = ?, contractor_id = ?, completed_at = ?,
		forecast_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(t.Status),
		nullableTimeToString(t.ScheduledDate, dateLayout),
		nullableString(t.ContractorID),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableTimeToString(t.ForecastDate, dateLayout),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating home task: %w", err)
	}
	return checkAffected(res, "task", t.ID)
}

func (r *SQLiteHomeTaskRepo) UpdateForecast(ctx context.Context, id string, forecast *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE home_tasks SET forecast_date = ? WHERE id = ?`,
		nullableTimeToString(forecast, dateLayout), id)
	if err != nil {
		return fmt.Errorf("updating task forecast: %w", err)
	}
	return checkAffected(res, "task", id)
}

func (r *SQLiteHomeTaskRepo) ListGates(ctx context.Context, homeID string) ([]GateRow, error) {
	query := `SELECT t.id, ` + gateNameExpr + `, t.sort_order_snapshot, t.category_snapshot,
		ti.gate_scope, ti.gate_block_mode, ` + openPunchCountExpr + taskFrom + `
		WHERE t.home_id = ? AND ti.is_critical_gate = 1
		ORDER BY t.sort_order_snapshot, t.id`
	rows, err := r.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("listing gates: %w", err)
	}
	defer rows.Close()

	var gates []GateRow
	for rows.Next() {
		var g GateRow
		var category sql.NullString
		var scope, mode string
		if err := rows.Scan(&g.TaskID, &g.GateName, &g.SortOrder, &category, &scope, &mode, &g.OpenPunchCount); err != nil {
			return nil, fmt.Errorf("scanning gate row: %w", err)
		}
		g.Category = stringPtr(category)
		g.Scope = domain.GateScope(scope)
		g.BlockMode = domain.GateBlockMode(mode)
		gates = append(gates, g)
	}
	return gates, rows.Err()
}

func scanHomeTask(row rowScanner) (*domain.HomeTask, error) {
	var t domain.HomeTask
	var category, contractor, scheduled, completed, forecast sql.NullString
	var critical int
	var scope, mode, status, createdAt, updatedAt string

	if err := row.Scan(
		&t.ID, &t.HomeID, &t.TemplateItemID, &t.NameSnapshot, &t.DurationDaysSnapshot,
		&t.SortOrderSnapshot, &category, &critical, &scope, &mode,
		&t.GateName, &status, &scheduled, &contractor, &completed, &forecast,
		&createdAt, &updatedAt, &t.PunchOpenCount,
	); err != nil {
		return nil, err
	}

	t.CategorySnapshot = stringPtr(category)
	t.IsCriticalGate = intToBool(critical)
	t.GateScope = domain.GateScope(scope)
	t.GateBlockMode = domain.GateBlockMode(mode)
	t.Status = domain.TaskStatus(status)
	t.ScheduledDate = parseNullableTime(scheduled, dateLayout)
	t.ContractorID = stringPtr(contractor)
	t.CompletedAt = parseNullableTime(completed, time.RFC3339)
	t.ForecastDate = parseNullableTime(forecast, dateLayout)

	var err error
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
