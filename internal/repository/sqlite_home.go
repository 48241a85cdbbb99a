package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// SQLiteHomeRepo implements HomeRepo using a SQLite database.
type SQLiteHomeRepo struct {
	db db.DBTX
}

// NewSQLiteHomeRepo creates a new SQLiteHomeRepo.
func NewSQLiteHomeRepo(db db.DBTX) *SQLiteHomeRepo {
	return &SQLiteHomeRepo{db: db}
}

const homeColumns = `id, label, start_date, forecast_completion_date, target_completion_date, created_at, updated_at`

func (r *SQLiteHomeRepo) Create(ctx context.Context, h *domain.Home) error {
	query := `INSERT INTO homes (` + homeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Label,
		h.StartDate.Format(dateLayout),
		nullableTimeToString(h.ForecastCompletionDate, dateLayout),
		nullableTimeToString(h.TargetCompletionDate, dateLayout),
		h.CreatedAt.Format(time.RFC3339),
		h.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting home: %w", err)
	}
	return nil
}

func (r *SQLiteHomeRepo) GetByID(ctx context.Context, id string) (*domain.Home, error) {
	h, err := scanHome(r.db.QueryRowContext(ctx, `SELECT `+homeColumns+` FROM homes WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "home", id)
	}
	return h, nil
}

func (r *SQLiteHomeRepo) List(ctx context.Context) ([]*domain.Home, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+homeColumns+` FROM homes ORDER BY start_date, label, id`)
	if err != nil {
		return nil, fmt.Errorf("listing homes: %w", err)
	}
	defer rows.Close()

	var homes []*domain.Home
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning home row: %w", err)
		}
		homes = append(homes, h)
	}
	return homes, rows.Err()
}

func (r *SQLiteHomeRepo) UpdateForecast(ctx context.Context, id string, forecast *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE homes SET forecast_completion_date = ?, updated_at = ? WHERE id = ?`,
		nullableTimeToString(forecast, dateLayout), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating home forecast: %w", err)
	}
	return checkAffected(res, "home", id)
}

func scanHome(row rowScanner) (*domain.Home, error) {
	var h domain.Home
	var startDate, createdAt, updatedAt string
	var forecast, target sql.NullString

	if err := row.Scan(&h.ID, &h.Label, &startDate, &forecast, &target, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	h.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	h.ForecastCompletionDate = parseNullableTime(forecast, dateLayout)
	h.TargetCompletionDate = parseNullableTime(target, dateLayout)
	h.CreatedAt, h.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
