package repository

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

type csvLogRepository struct {
	table *csvTable
}

func NewCSVLogRepository(path string, logger zerolog.Logger) LogRepository {
	return &csvLogRepository{
		table: newCSVTable(path, logColumns, "id", logger),
	}
}

func (r *csvLogRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	return r.table.mutate(func(rows []record) ([]record, error) {
		return append(rows, logEntryToRecord(entry)), nil
	})
}

func (r *csvLogRepository) ListByOwner(ctx context.Context, owner string) ([]models.LogEntry, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	var entries []models.LogEntry
	for _, row := range rows {
		if row["user"] == owner {
			entries = append(entries, recordToLogEntry(row))
		}
	}
	return entries, nil
}

func (r *csvLogRepository) List(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, recordToLogEntry(row))
	}
	return entries, nil
}

func logEntryToRecord(e *models.LogEntry) record {
	return record{
		"id":         e.ID,
		"user":       e.Owner,
		"subject":    e.Subject,
		"date":       e.Date,
		"kind":       e.Kind.String(),
		"text":       e.Text,
		"duration":   formatFloat(e.DurationMinutes),
		"created_at": formatTime(e.CreatedAt),
	}
}

func recordToLogEntry(row record) models.LogEntry {
	return models.LogEntry{
		ID:              row["id"],
		Owner:           row["user"],
		Subject:         row["subject"],
		Date:            row["date"],
		Kind:            models.ParseEntryKind(row["kind"], row["text"]),
		Text:            row["text"],
		DurationMinutes: parseFloat(row["duration"]),
		CreatedAt:       parseTime(row["created_at"]),
	}
}
