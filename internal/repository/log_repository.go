package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

const logSelect = `
	SELECT id, owner, subject, to_char(entry_date, 'YYYY-MM-DD'), kind, text, duration_minutes, created_at
	FROM log_entries
`

type logRepository struct {
	*PostgresRepository
}

func NewLogRepository(db *sql.DB, logger zerolog.Logger) LogRepository {
	return &logRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *logRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO log_entries (id, owner, subject, entry_date, kind, text, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Owner,
		entry.Subject,
		entry.Date,
		entry.Kind,
		entry.Text,
		entry.DurationMinutes,
		entry.CreatedAt,
	)

	return err
}

// seq is a BIGSERIAL, so ordering by it reproduces insertion order.
func (r *logRepository) ListByOwner(ctx context.Context, owner string) ([]models.LogEntry, error) {
	return r.query(ctx, logSelect+`WHERE owner = $1 ORDER BY seq`, owner)
}

func (r *logRepository) List(ctx context.Context) ([]models.LogEntry, error) {
	return r.query(ctx, logSelect+`ORDER BY seq`)
}

func (r *logRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var (
			entry models.LogEntry
			kind  string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Owner,
			&entry.Subject,
			&entry.Date,
			&kind,
			&entry.Text,
			&entry.DurationMinutes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Kind = models.ParseEntryKind(kind, entry.Text)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
