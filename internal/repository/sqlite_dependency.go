package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(db db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: db}
}

func (r *SQLiteDependencyRepo) ListAll(ctx context.Context) ([]domain.TemplateDependency, error) {
	query := `SELECT depends_on_item_id, template_item_id FROM template_dependencies
		ORDER BY template_item_id, depends_on_item_id`
	return r.query(ctx, query)
}

func (r *SQLiteDependencyRepo) ListForItem(ctx context.Context, itemID string) ([]domain.TemplateDependency, error) {
	query := `SELECT depends_on_item_id, template_item_id FROM template_dependencies
		WHERE template_item_id = ? ORDER BY depends_on_item_id`
	return r.query(ctx, query, itemID)
}

// ReplaceForItem deletes the existing rows and inserts the new set. Callers
// run it inside a transaction so readers never see the half-replaced set.
func (r *SQLiteDependencyRepo) ReplaceForItem(ctx context.Context, itemID string, dependsOn []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM template_dependencies WHERE template_item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clearing dependencies: %w", err)
	}
	for _, dep := range dependsOn {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO template_dependencies (depends_on_item_id, template_item_id) VALUES (?, ?)`,
			dep, itemID)
		if err != nil {
			return fmt.Errorf("inserting dependency %s -> %s: %w", dep, itemID, err)
		}
	}
	return nil
}

func (r *SQLiteDependencyRepo) query(ctx context.Context, query string, args ...any) ([]domain.TemplateDependency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var deps []domain.TemplateDependency
	for rows.Next() {
		var d domain.TemplateDependency
		if err := rows.Scan(&d.DependsOnItemID, &d.TemplateItemID); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}
