package repository

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

type csvSubjectRepository struct {
	table *csvTable
}

func NewCSVSubjectRepository(path string, logger zerolog.Logger) SubjectRepository {
	return &csvSubjectRepository{
		table: newCSVTable(path, subjectColumns, "id", logger),
	}
}

func (r *csvSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.table.mutate(func(rows []record) ([]record, error) {
		return append(rows, subjectToRecord(subject)), nil
	})
}

func (r *csvSubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row["id"] == id {
			subject := recordToSubject(row)
			return &subject, nil
		}
	}

	return nil, nil
}

func (r *csvSubjectRepository) ListByOwner(ctx context.Context, owner string) ([]models.Subject, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	var subjects []models.Subject
	for _, row := range rows {
		if row["user"] == owner {
			subjects = append(subjects, recordToSubject(row))
		}
	}
	return subjects, nil
}

func (r *csvSubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, recordToSubject(row))
	}
	return subjects, nil
}

func (r *csvSubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	return r.table.mutate(func(rows []record) ([]record, error) {
		for i, row := range rows {
			if row["id"] == subject.ID {
				updated := subjectToRecord(subject)
				for k, v := range row {
					if _, ok := updated[k]; !ok {
						updated[k] = v
					}
				}
				rows[i] = updated
				return rows, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *csvSubjectRepository) Delete(ctx context.Context, id string) error {
	return r.table.mutate(func(rows []record) ([]record, error) {
		for i, row := range rows {
			if row["id"] == id {
				return append(rows[:i], rows[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func subjectToRecord(s *models.Subject) record {
	return record{
		"id":         s.ID,
		"user":       s.Owner,
		"subject":    s.Name,
		"code":       s.Code,
		"doctor":     s.Instructor,
		"units":      strconv.Itoa(s.Units),
		"p1_s":       formatFloat(s.Midterm1.Score),
		"p1_t":       formatFloat(s.Midterm1.Max),
		"p2_s":       formatFloat(s.Midterm2.Score),
		"p2_t":       formatFloat(s.Midterm2.Max),
		"fin_s":      formatFloat(s.Final.Score),
		"fin_t":      formatFloat(s.Final.Max),
		"difficulty": s.Difficulty.String(),
		"created_at": formatTime(s.CreatedAt),
		"updated_at": formatTime(s.UpdatedAt),
	}
}

func recordToSubject(row record) models.Subject {
	return models.Subject{
		ID:         row["id"],
		Owner:      row["user"],
		Name:       row["subject"],
		Code:       row["code"],
		Instructor: row["doctor"],
		Units:      parseInt(row["units"]),
		Midterm1:   models.ExamComponent{Score: parseFloat(row["p1_s"]), Max: parseFloat(row["p1_t"])},
		Midterm2:   models.ExamComponent{Score: parseFloat(row["p2_s"]), Max: parseFloat(row["p2_t"])},
		Final:      models.ExamComponent{Score: parseFloat(row["fin_s"]), Max: parseFloat(row["fin_t"])},
		Difficulty: models.Difficulty(row["difficulty"]),
		CreatedAt:  parseTime(row["created_at"]),
		UpdatedAt:  parseTime(row["updated_at"]),
	}
}
