package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

const subjectSelect = `
	SELECT id, owner, name, code, instructor, units,
		midterm1_score, midterm1_max, midterm2_score, midterm2_max,
		final_score, final_max, difficulty, created_at, updated_at
	FROM subjects
`

type subjectRepository struct {
	*PostgresRepository
}

func NewSubjectRepository(db *sql.DB, logger zerolog.Logger) SubjectRepository {
	return &subjectRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (
			id, owner, name, code, instructor, units,
			midterm1_score, midterm1_max, midterm2_score, midterm2_max,
			final_score, final_max, difficulty, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		subject.ID,
		subject.Owner,
		subject.Name,
		subject.Code,
		subject.Instructor,
		subject.Units,
		subject.Midterm1.Score,
		subject.Midterm1.Max,
		subject.Midterm2.Score,
		subject.Midterm2.Max,
		subject.Final.Score,
		subject.Final.Max,
		subject.Difficulty,
		subject.CreatedAt,
		subject.UpdatedAt,
	)

	return err
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	// The id column is a UUID; anything else cannot match a row.
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	row := r.db.QueryRowContext(ctx, subjectSelect+`WHERE id = $1`, id)

	subject, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return subject, nil
}

func (r *subjectRepository) ListByOwner(ctx context.Context, owner string) ([]models.Subject, error) {
	return r.query(ctx, subjectSelect+`WHERE owner = $1 ORDER BY created_at, id`, owner)
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	return r.query(ctx, subjectSelect+`ORDER BY created_at, id`)
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `
		UPDATE subjects
		SET name = $1, code = $2, instructor = $3,
			midterm1_score = $4, midterm2_score = $5, final_score = $6,
			difficulty = $7, updated_at = $8
		WHERE id = $9
	`

	res, err := r.db.ExecContext(ctx, query,
		subject.Name,
		subject.Code,
		subject.Instructor,
		subject.Midterm1.Score,
		subject.Midterm2.Score,
		subject.Final.Score,
		subject.Difficulty,
		subject.UpdatedAt,
		subject.ID,
	)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *subjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *subjectRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, *subject)
	}

	return subjects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubject(s rowScanner) (*models.Subject, error) {
	subject := &models.Subject{}
	err := s.Scan(
		&subject.ID,
		&subject.Owner,
		&subject.Name,
		&subject.Code,
		&subject.Instructor,
		&subject.Units,
		&subject.Midterm1.Score,
		&subject.Midterm1.Max,
		&subject.Midterm2.Score,
		&subject.Midterm2.Max,
		&subject.Final.Score,
		&subject.Final.Max,
		&subject.Difficulty,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return subject, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
