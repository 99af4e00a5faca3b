package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Column layouts of the three tables. The layouts keep the column names of
// the original dashboard files so existing data loads as is; the timestamp
// columns are appended and read as zero when a legacy file lacks them.
var (
	userColumns    = []string{"username", "password", "created_at"}
	subjectColumns = []string{"id", "user", "subject", "code", "doctor", "units", "p1_s", "p1_t", "p2_s", "p2_t", "fin_s", "fin_t", "difficulty", "created_at", "updated_at"}
	logColumns     = []string{"id", "user", "subject", "date", "kind", "text", "duration", "created_at"}
)

type CSVStoreConfig struct {
	DataDir      string
	UsersFile    string
	SubjectsFile string
	LogsFile     string
}

// NewCSVStore opens the flat-file store. Missing files are fine: they read as
// empty tables and are created on the first write.
func NewCSVStore(cfg CSVStoreConfig, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}

	logger.Info().Str("data_dir", cfg.DataDir).Msg("Using CSV record store")

	return &Store{
		Users:    NewCSVUserRepository(filepath.Join(cfg.DataDir, cfg.UsersFile), logger),
		Subjects: NewCSVSubjectRepository(filepath.Join(cfg.DataDir, cfg.SubjectsFile), logger),
		Logs:     NewCSVLogRepository(filepath.Join(cfg.DataDir, cfg.LogsFile), logger),
	}, nil
}
