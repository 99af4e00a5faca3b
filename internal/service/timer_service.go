package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

// NoFocusSubject is logged when the user saves a session without picking a
// subject, which is also the only choice when they have none.
const NoFocusSubject = "None"

type TimerService interface {
	Start(ctx context.Context, sess *session.Session) (session.TimerSnapshot, error)
	Pause(ctx context.Context, sess *session.Session) (session.TimerSnapshot, error)
	Save(ctx context.Context, sess *session.Session, req *models.SaveSessionRequest) (*models.LogEntry, error)
	Status(sess *session.Session) session.TimerSnapshot
}

type timerService struct {
	logRepo   repository.LogRepository
	publisher integration.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTimerService(
	logRepo repository.LogRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) TimerService {
	return &timerService{
		logRepo:   logRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *timerService) Start(ctx context.Context, sess *session.Session) (session.TimerSnapshot, error) {
	snap, err := sess.Timer.Start(sess.Context())
	if err != nil {
		return snap, err
	}

	s.logger.Debug().Str("username", sess.Username).Msg("Focus timer started")
	return snap, nil
}

func (s *timerService) Pause(ctx context.Context, sess *session.Session) (session.TimerSnapshot, error) {
	snap, err := sess.Timer.Pause()
	if err != nil {
		return snap, err
	}

	s.logger.Debug().
		Str("username", sess.Username).
		Int("elapsed_seconds", snap.ElapsedSeconds).
		Msg("Focus timer paused")
	return snap, nil
}

// Save logs the elapsed time as a study session and resets the timer. While
// the entry is written the timer rejects other transitions; if it cannot be
// stored the timer goes back to paused with its time intact.
func (s *timerService) Save(ctx context.Context, sess *session.Session, req *models.SaveSessionRequest) (*models.LogEntry, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	elapsed, err := sess.Timer.Halt()
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = NoFocusSubject
	}

	now := s.now()
	entry := &models.LogEntry{
		ID:              uuid.New().String(),
		Owner:           sess.Username,
		Subject:         subject,
		Date:            now.Format(models.DateLayout),
		Kind:            models.EntryKindSession,
		Text:            models.SessionText,
		DurationMinutes: SessionMinutes(elapsed),
		CreatedAt:       now,
	}

	if err := s.logRepo.Append(ctx, entry); err != nil {
		sess.Timer.Restore()
		return nil, fmt.Errorf("failed to save study session: %w", err)
	}

	sess.Timer.Reset()

	s.logger.Info().
		Str("username", sess.Username).
		Str("entry_id", entry.ID).
		Str("subject", subject).
		Float64("duration_minutes", entry.DurationMinutes).
		Msg("Study session saved")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:            models.EventSessionSaved,
		Username:        sess.Username,
		EntityID:        entry.ID,
		Subject:         subject,
		DurationMinutes: entry.DurationMinutes,
		Timestamp:       now.Unix(),
	})

	return entry, nil
}

func (s *timerService) Status(sess *session.Session) session.TimerSnapshot {
	return sess.Timer.Snapshot()
}

// SessionMinutes converts elapsed seconds to minutes rounded to two decimals.
func SessionMinutes(seconds int) float64 {
	return math.Round(float64(seconds)/60*100) / 100
}
