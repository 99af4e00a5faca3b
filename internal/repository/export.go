package repository

import (
	"io"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

// The export helpers render tables in the CSV store layout regardless of
// which driver they were read from.

func WriteUsersCSV(w io.Writer, users []models.User) error {
	rows := make([]record, 0, len(users))
	for i := range users {
		rows = append(rows, userToRecord(&users[i]))
	}
	return writeRecords(w, userColumns, rows)
}

func WriteSubjectsCSV(w io.Writer, subjects []models.Subject) error {
	rows := make([]record, 0, len(subjects))
	for i := range subjects {
		rows = append(rows, subjectToRecord(&subjects[i]))
	}
	return writeRecords(w, subjectColumns, rows)
}

func WriteLogsCSV(w io.Writer, entries []models.LogEntry) error {
	rows := make([]record, 0, len(entries))
	for i := range entries {
		rows = append(rows, logEntryToRecord(&entries[i]))
	}
	return writeRecords(w, logColumns, rows)
}
