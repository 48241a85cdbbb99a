package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// SQLiteTemplateItemRepo implements TemplateItemRepo using a SQLite database.
type SQLiteTemplateItemRepo struct {
	db db.DBTX
}

// NewSQLiteTemplateItemRepo creates a new SQLiteTemplateItemRepo.
func NewSQLiteTemplateItemRepo(db db.DBTX) *SQLiteTemplateItemRepo {
	return &SQLiteTemplateItemRepo{db: db}
}

const templateItemColumns = `id, name, duration_days, sort_order, category,
	is_critical_gate, gate_scope, gate_block_mode, gate_name, created_at, updated_at`

func (r *SQLiteTemplateItemRepo) Create(ctx context.Context, item *domain.TemplateItem) error {
	query := `INSERT INTO template_items (` + templateItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.DurationDays,
		item.SortOrder,
		nullableString(item.Category),
		boolToInt(item.IsCriticalGate),
		string(item.GateScope),
		string(item.GateBlockMode),
		nullableString(item.GateName),
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting template item: %w", err)
	}
	return nil
}

func (r *SQLiteTemplateItemRepo) GetByID(ctx context.Context, id string) (*domain.TemplateItem, error) {
	query := `SELECT ` + templateItemColumns + ` FROM template_items WHERE id = ?`
	item, err := scanTemplateItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "template item", id)
	}
	return item, nil
}

func (r *SQLiteTemplateItemRepo) List(ctx context.Context) ([]*domain.TemplateItem, error) {
	query := `SELECT ` + templateItemColumns + ` FROM template_items ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing template items: %w", err)
	}
	defer rows.Close()

	var items []*domain.TemplateItem
	for rows.Next() {
		item, err := scanTemplateItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteTemplateItemRepo) Update(ctx context.Context, item *domain.TemplateItem) error {
	query := `UPDATE template_items SET name = ?, duration_days = ?, sort_order = ?, category = ?,
		is_critical_gate = ?, gate_scope = ?, gate_block_mode = ?, gate_name = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		item.Name,
		item.DurationDays,
		item.SortOrder,
		nullableString(item.Category),
		boolToInt(item.IsCriticalGate),
		string(item.GateScope),
		string(item.GateBlockMode),
		nullableString(item.GateName),
		item.UpdatedAt.Format(time.RFC3339),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating template item: %w", err)
	}
	return checkAffected(res, "template item", item.ID)
}

func (r *SQLiteTemplateItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM template_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template item: %w", err)
	}
	return checkAffected(res, "template item", id)
}

func (r *SQLiteTemplateItemRepo) CountTaskRefs(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM home_tasks WHERE template_item_id = ?`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting task references: %w", err)
	}
	return n, nil
}

func scanTemplateItem(row rowScanner) (*domain.TemplateItem, error) {
	var item domain.TemplateItem
	var category, gateName sql.NullString
	var critical int
	var scope, mode, createdAt, updatedAt string

	if err := row.Scan(
		&item.ID, &item.Name, &item.DurationDays, &item.SortOrder, &category,
		&critical, &scope, &mode, &gateName, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	item.Category = stringPtr(category)
	item.GateName = stringPtr(gateName)
	item.IsCriticalGate = intToBool(critical)
	item.GateScope = domain.GateScope(scope)
	item.GateBlockMode = domain.GateBlockMode(mode)

	var err error
	item.CreatedAt, item.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
