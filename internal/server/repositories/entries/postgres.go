// Package entries provides the PostgreSQL-backed journal entry store.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

const entryColumns = `id, user_id, entry_date,
	affirmation, priority_work, priority_family, priority_self_care,
	gratitude, highlights, thoughts, notes, reflection,
	rating_work, rating_family, rating_self_care,
	COALESCE(doodle_key, ''), created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM entries WHERE user_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1 AND entry_date = $2`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) ListRecentDates(ctx context.Context, userID string, limit int) ([]time.Time, error) {
	query := `SELECT entry_date FROM entries
		WHERE user_id = $1
		ORDER BY entry_date DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0, limit)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		dates = append(dates, common.DateOf(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return dates, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO entries (user_id, entry_date,
			affirmation, priority_work, priority_family, priority_self_care,
			gratitude, highlights, thoughts, notes, reflection,
			rating_work, rating_family, rating_self_care)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET
			affirmation = EXCLUDED.affirmation,
			priority_work = EXCLUDED.priority_work,
			priority_family = EXCLUDED.priority_family,
			priority_self_care = EXCLUDED.priority_self_care,
			gratitude = EXCLUDED.gratitude,
			highlights = EXCLUDED.highlights,
			thoughts = EXCLUDED.thoughts,
			notes = EXCLUDED.notes,
			reflection = EXCLUDED.reflection,
			rating_work = EXCLUDED.rating_work,
			rating_family = EXCLUDED.rating_family,
			rating_self_care = EXCLUDED.rating_self_care,
			updated_at = now()
		RETURNING ` + entryColumns

	c := entry.Content
	saved, err := scanEntry(r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Date,
		c.Affirmation, c.PriorityWork, c.PriorityFamily, c.PrioritySelfCare,
		c.Gratitude, c.Highlights, c.Thoughts, c.Notes, c.Reflection,
		c.RatingWork, c.RatingFamily, c.RatingSelfCare,
	))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

func (r *PostgresRepository) SetDoodleKey(ctx context.Context, userID string, date time.Time, key string) error {
	query := `UPDATE entries SET doodle_key = $3, updated_at = now()
		WHERE user_id = $1 AND entry_date = $2`

	res, err := r.db.ExecContext(ctx, query, userID, date, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	c := &e.Content
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Date,
		&c.Affirmation, &c.PriorityWork, &c.PriorityFamily, &c.PrioritySelfCare,
		&c.Gratitude, &c.Highlights, &c.Thoughts, &c.Notes, &c.Reflection,
		&c.RatingWork, &c.RatingFamily, &c.RatingSelfCare,
		&e.DoodleKey, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Date = common.DateOf(e.Date)
	return &e, nil
}
