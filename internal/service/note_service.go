package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
)

type NoteService interface {
	PostUpdate(ctx context.Context, owner string, req *models.PostUpdateRequest) (*models.LogEntry, error)
	ListUpdates(ctx context.Context, owner string) ([]models.LogEntry, error)
}

type noteService struct {
	logRepo   repository.LogRepository
	publisher integration.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewNoteService(
	logRepo repository.LogRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) NoteService {
	return &noteService{
		logRepo:   logRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *noteService) PostUpdate(ctx context.Context, owner string, req *models.PostUpdateRequest) (*models.LogEntry, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &models.LogEntry{
		ID:        uuid.New().String(),
		Owner:     owner,
		Subject:   req.Subject,
		Date:      now.Format(models.DateLayout),
		Kind:      models.EntryKindNote,
		Text:      req.Text,
		CreatedAt: now,
	}

	if err := s.logRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to post update: %w", err)
	}

	s.logger.Info().
		Str("username", owner).
		Str("entry_id", entry.ID).
		Str("subject", entry.Subject).
		Msg("Weekly update posted")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:      models.EventNotePosted,
		Username:  owner,
		EntityID:  entry.ID,
		Subject:   entry.Subject,
		Timestamp: now.Unix(),
	})

	return entry, nil
}

// ListUpdates returns the owner's notes, most recently posted first. A note
// whose text is exactly the session sentinel stays hidden, as it always was.
func (s *noteService) ListUpdates(ctx context.Context, owner string) ([]models.LogEntry, error) {
	entries, err := s.logRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return weeklyUpdates(entries), nil
}

func weeklyUpdates(entries []models.LogEntry) []models.LogEntry {
	updates := make([]models.LogEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Kind != models.EntryKindNote || e.Text == models.SessionText {
			continue
		}
		updates = append(updates, e)
	}
	return updates
}
