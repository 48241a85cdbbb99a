package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// SQLitePunchItemRepo implements PunchItemRepo using a SQLite database.
type SQLitePunchItemRepo struct {
	db db.DBTX
}

// NewSQLitePunchItemRepo creates a new SQLitePunchItemRepo.
func NewSQLitePunchItemRepo(db db.DBTX) *SQLitePunchItemRepo {
	return &SQLitePunchItemRepo{db: db}
}

const punchColumns = `id, home_id, related_home_task_id, category, title, status, severity,
	closed_at, created_at, updated_at`

func (r *SQLitePunchItemRepo) Create(ctx context.Context, p *domain.PunchItem) error {
	query := `INSERT INTO punch_items (` + punchColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.HomeID,
		p.RelatedHomeTaskID,
		nullableString(p.Category),
		p.Title,
		string(p.Status),
		string(p.Severity),
		nullableTimeToString(p.ClosedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting punch item: %w", err)
	}
	return nil
}

func (r *SQLitePunchItemRepo) GetByID(ctx context.Context, id string) (*domain.PunchItem, error) {
	p, err := scanPunchItem(r.db.QueryRowContext(ctx, `SELECT `+punchColumns+` FROM punch_items WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "punch item", id)
	}
	return p, nil
}

func (r *SQLitePunchItemRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.PunchItem, error) {
	query := `SELECT ` + punchColumns + ` FROM punch_items
		WHERE related_home_task_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, taskID)
}

func (r *SQLitePunchItemRepo) ListByHome(ctx context.Context, homeID string, openOnly bool) ([]*domain.PunchItem, error) {
	query := `SELECT ` + punchColumns + ` FROM punch_items WHERE home_id = ?`
	if openOnly {
		query += ` AND status IN ('open', 'ready_for_review')`
	}
	query += ` ORDER BY created_at, id`
	return r.list(ctx, query, homeID)
}

func (r *SQLitePunchItemRepo) Update(ctx context.Context, p *domain.PunchItem) error {
	query := `UPDATE punch_items SET category = ?, title = ?, status = ?, severity = ?, closed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(p.Category),
		p.Title,
		string(p.Status),
		string(p.Severity),
		nullableTimeToString(p.ClosedAt, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating punch item: %w", err)
	}
	return checkAffected(res, "punch item", p.ID)
}

func (r *SQLitePunchItemRepo) CountOpenForGate(ctx context.Context, homeID, taskID string, category *string) (int, error) {
	query := `SELECT COUNT(*) FROM punch_items
		WHERE home_id = ?
		  AND status IN ('open', 'ready_for_review')
		  AND (related_home_task_id = ? OR (? IS NOT NULL AND category = ?))`
	cat := nullableString(category)
	var n int
	if err := r.db.QueryRowContext(ctx, query, homeID, taskID, cat, cat).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting open punch items: %w", err)
	}
	return n, nil
}

func (r *SQLitePunchItemRepo) list(ctx context.Context, query string, args ...any) ([]*domain.PunchItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing punch items: %w", err)
	}
	defer rows.Close()

	var items []*domain.PunchItem
	for rows.Next() {
		p, err := scanPunchItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning punch item row: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanPunchItem(row rowScanner) (*domain.PunchItem, error) {
	var p domain.PunchItem
	var category, closedAt sql.NullString
	var status, severity, createdAt, updatedAt string

	if err := row.Scan(&p.ID, &p.HomeID, &p.RelatedHomeTaskID, &category, &p.Title,
		&status, &severity, &closedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.Category = stringPtr(category)
	p.Status = domain.PunchStatus(status)
	p.Severity = domain.PunchSeverity(severity)
	p.ClosedAt = parseNullableTime(closedAt, time.RFC3339)

	var err error
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
