package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// record is one CSV row keyed by column name.
type record map[string]string

// csvTable is a whole-file table: every read parses the full file and every
// write replaces it. The mutex serializes read-modify-write cycles inside
// one process; separate processes still race with last write wins.
type csvTable struct {
	path     string
	columns  []string
	idColumn string
	logger   zerolog.Logger

	mu sync.Mutex
}

func newCSVTable(path string, columns []string, idColumn string, logger zerolog.Logger) *csvTable {
	return &csvTable{
		path:     path,
		columns:  columns,
		idColumn: idColumn,
		logger:   logger.With().Str("table", filepath.Base(path)).Logger(),
	}
}

// read returns all rows. Rows predating the id column get one assigned and
// the table is rewritten so the ids stay stable.
func (t *csvTable) read() ([]record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, extra, assigned, err := t.load()
	if err != nil {
		return nil, err
	}
	if assigned > 0 {
		t.logger.Info().Int("rows", assigned).Msg("Assigned ids to legacy rows")
		if err := t.save(rows, extra); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// mutate loads the table, hands the rows to fn and saves what fn returns.
func (t *csvTable) mutate(fn func(rows []record) ([]record, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, extra, _, err := t.load()
	if err != nil {
		return err
	}

	rows, err = fn(rows)
	if err != nil {
		return err
	}

	return t.save(rows, extra)
}

func (t *csvTable) load() (rows []record, extra []string, assigned int, err error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, 0, nil
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, 0, nil
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read header of %s: %w", t.path, err)
	}

	known := make(map[string]bool, len(t.columns))
	for _, c := range t.columns {
		known[c] = true
	}
	for _, h := range header {
		if !known[h] {
			extra = append(extra, h)
		}
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to read %s: %w", t.path, err)
		}

		row := make(record, len(t.columns)+len(extra))
		for _, c := range t.columns {
			row[c] = ""
		}
		for i, h := range header {
			if i < len(fields) {
				row[h] = fields[i]
			}
		}
		if t.idColumn != "" && row[t.idColumn] == "" {
			row[t.idColumn] = uuid.New().String()
			assigned++
		}
		rows = append(rows, row)
	}

	return rows, extra, assigned, nil
}

// save writes to a temporary file next to the table and renames it over the
// original so a crash never leaves a half-written table.
func (t *csvTable) save(rows []record, extra []string) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	columns := append(append([]string{}, t.columns...), extra...)
	if err := writeRecords(tmp, columns, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", t.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", t.path, err)
	}

	t.logger.Debug().Int("rows", len(rows)).Msg("Table saved")
	return nil
}

func writeRecords(w io.Writer, columns []string, rows []record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}

	line := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			line[i] = row[c]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// parseFloat treats anything unparsable as zero.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseInt accepts "4" as well as "4.0", which is how float-typed columns
// come back from other CSV writers.
func parseInt(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return int(parseFloat(s))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatTime leaves the cell empty for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime treats an empty or malformed cell as the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
