package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type PostgresRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresRepository(db *sql.DB, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// NewPostgresStore wires the three tables onto one connection pool. Closing
// the store closes the pool.
func NewPostgresStore(db *sql.DB, logger zerolog.Logger) *Store {
	logger.Info().Msg("Using PostgreSQL record store")

	return &Store{
		Users:    NewUserRepository(db, logger),
		Subjects: NewSubjectRepository(db, logger),
		Logs:     NewLogRepository(db, logger),
		closer:   db.Close,
	}
}
