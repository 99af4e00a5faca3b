package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
)

type SubjectService interface {
	AddSubject(ctx context.Context, owner string, req *models.AddSubjectRequest) (*models.Subject, error)
	EditSubject(ctx context.Context, owner, id string, req *models.EditSubjectRequest) (*models.Subject, error)
	RemoveSubject(ctx context.Context, owner, id string) error
	ListSubjects(ctx context.Context, owner string) ([]models.Subject, error)
	TotalCredits(ctx context.Context, owner string) (int, error)
	GradeArchive(ctx context.Context, owner string) ([]models.GradeRow, error)
}

type subjectService struct {
	subjectRepo repository.SubjectRepository
	publisher   integration.EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubjectService {
	return &subjectService{
		subjectRepo: subjectRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *subjectService) AddSubject(ctx context.Context, owner string, req *models.AddSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	subject := &models.Subject{
		ID:         uuid.New().String(),
		Owner:      owner,
		Name:       req.Name,
		Code:       strings.TrimSpace(req.Code),
		Instructor: strings.TrimSpace(req.Instructor),
		Units:      req.Units,
		Midterm1:   models.ExamComponent{Max: models.DefaultMidterm1Max},
		Midterm2:   models.ExamComponent{Max: models.DefaultMidterm2Max},
		Final:      models.ExamComponent{Max: models.DefaultFinalMax},
		Difficulty: models.Difficulty(req.Difficulty),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info().
		Str("username", owner).
		Str("subject_id", subject.ID).
		Str("subject", subject.Name).
		Msg("Subject added")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:      models.EventSubjectCreated,
		Username:  owner,
		EntityID:  subject.ID,
		Subject:   subject.Name,
		Timestamp: now.Unix(),
	})

	return subject, nil
}

// EditSubject overwrites name, code, instructor, the three scores and the
// difficulty. Units and maximum scores keep their stored values.
func (s *subjectService) EditSubject(ctx context.Context, owner, id string, req *models.EditSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	subject, err := s.ownedSubject(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.Code = strings.TrimSpace(req.Code)
	subject.Instructor = strings.TrimSpace(req.Instructor)
	subject.Midterm1.Score = req.Scores[0]
	subject.Midterm2.Score = req.Scores[1]
	subject.Final.Score = req.Scores[2]
	subject.Difficulty = models.Difficulty(req.Difficulty)
	subject.UpdatedAt = s.now()

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	s.logger.Info().
		Str("username", owner).
		Str("subject_id", subject.ID).
		Msg("Subject updated")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:      models.EventSubjectUpdated,
		Username:  owner,
		EntityID:  subject.ID,
		Subject:   subject.Name,
		Timestamp: subject.UpdatedAt.Unix(),
	})

	return subject, nil
}

func (s *subjectService) RemoveSubject(ctx context.Context, owner, id string) error {
	subject, err := s.ownedSubject(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := s.subjectRepo.Delete(ctx, subject.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to remove subject: %w", err)
	}

	s.logger.Info().
		Str("username", owner).
		Str("subject_id", subject.ID).
		Msg("Subject removed")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:      models.EventSubjectRemoved,
		Username:  owner,
		EntityID:  subject.ID,
		Subject:   subject.Name,
		Timestamp: s.now().Unix(),
	})

	return nil
}

func (s *subjectService) ListSubjects(ctx context.Context, owner string) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *subjectService) TotalCredits(ctx context.Context, owner string) (int, error) {
	subjects, err := s.ListSubjects(ctx, owner)
	if err != nil {
		return 0, err
	}
	return sumUnits(subjects), nil
}

func (s *subjectService) GradeArchive(ctx context.Context, owner string) ([]models.GradeRow, error) {
	subjects, err := s.ListSubjects(ctx, owner)
	if err != nil {
		return nil, err
	}
	return gradeRows(subjects), nil
}

// ownedSubject hides subjects of other users behind ErrSubjectNotFound.
func (s *subjectService) ownedSubject(ctx context.Context, owner, id string) (*models.Subject, error) {
	if id == "" {
		return nil, ErrSubjectNotFound
	}

	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil || subject.Owner != owner {
		return nil, ErrSubjectNotFound
	}

	return subject, nil
}

// sumUnits counts negative or unparsed units as zero.
func sumUnits(subjects []models.Subject) int {
	total := 0
	for _, subj := range subjects {
		if subj.Units > 0 {
			total += subj.Units
		}
	}
	return total
}

func gradeRows(subjects []models.Subject) []models.GradeRow {
	rows := make([]models.GradeRow, 0, len(subjects))
	for _, subj := range subjects {
		rows = append(rows, models.NewGradeRow(subj))
	}
	return rows
}
