package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type Metrics struct {
	TotalCredits      int     `json:"total_credits"`
	StudyTodayMinutes float64 `json:"study_today_minutes"`
	SubjectCount      int     `json:"subject_count"`
}

// Dashboard is everything the main page renders for one user.
type Dashboard struct {
	Session      session.State        `json:"session"`
	Metrics      Metrics              `json:"metrics"`
	Subjects     []models.SubjectView `json:"subjects"`
	Grades       []models.GradeRow    `json:"grades"`
	FocusOptions []string             `json:"focus_options"`
	Updates      []models.LogEntry    `json:"updates"`
}

type DashboardService interface {
	Metrics(ctx context.Context, owner string) (*Metrics, error)
	Dashboard(ctx context.Context, sess *session.Session) (*Dashboard, error)
}

type dashboardService struct {
	subjectRepo repository.SubjectRepository
	logRepo     repository.LogRepository
	now         func() time.Time
}

func NewDashboardService(subjectRepo repository.SubjectRepository, logRepo repository.LogRepository) DashboardService {
	return &dashboardService{
		subjectRepo: subjectRepo,
		logRepo:     logRepo,
		now:         time.Now,
	}
}

func (s *dashboardService) Metrics(ctx context.Context, owner string) (*Metrics, error) {
	subjects, entries, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	m := s.metrics(subjects, entries)
	return &m, nil
}

func (s *dashboardService) Dashboard(ctx context.Context, sess *session.Session) (*Dashboard, error) {
	subjects, entries, err := s.load(ctx, sess.Username)
	if err != nil {
		return nil, err
	}

	views := make([]models.SubjectView, 0, len(subjects))
	focus := make([]string, 0, len(subjects))
	for _, subj := range subjects {
		views = append(views, models.NewSubjectView(subj))
		focus = append(focus, subj.Name)
	}
	if len(focus) == 0 {
		focus = append(focus, NoFocusSubject)
	}

	return &Dashboard{
		Session:      sess.State(),
		Metrics:      s.metrics(subjects, entries),
		Subjects:     views,
		Grades:       gradeRows(subjects),
		FocusOptions: focus,
		Updates:      weeklyUpdates(entries),
	}, nil
}

func (s *dashboardService) load(ctx context.Context, owner string) ([]models.Subject, []models.LogEntry, error) {
	subjects, err := s.subjectRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	entries, err := s.logRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return subjects, entries, nil
}

func (s *dashboardService) metrics(subjects []models.Subject, entries []models.LogEntry) Metrics {
	return Metrics{
		TotalCredits:      sumUnits(subjects),
		StudyTodayMinutes: studyMinutesOn(entries, s.now().Format(models.DateLayout)),
		SubjectCount:      len(subjects),
	}
}

// studyMinutesOn sums durations of entries dated day, to one decimal.
func studyMinutesOn(entries []models.LogEntry, day string) float64 {
	total := 0.0
	for _, e := range entries {
		if e.Date == day {
			total += e.DurationMinutes
		}
	}
	return math.Round(total*10) / 10
}
