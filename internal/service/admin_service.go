package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type AdminService interface {
	ListUsers(ctx context.Context, sess *session.Session) (*models.UserList, error)
	Backup(ctx context.Context, sess *session.Session) (*models.BackupResult, error)
}

type adminService struct {
	store   *repository.Store
	backups integration.BackupStorage
	prefix  string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAdminService takes a nil backups when snapshots are not configured.
func NewAdminService(
	store *repository.Store,
	backups integration.BackupStorage,
	prefix string,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		store:   store,
		backups: backups,
		prefix:  prefix,
		logger:  logger,
		now:     time.Now,
	}
}

// ListUsers returns every distinct registered username in registration
// order.
func (s *adminService) ListUsers(ctx context.Context, sess *session.Session) (*models.UserList, error) {
	if !sess.IsAdmin {
		return nil, ErrForbidden
	}

	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	seen := make(map[string]bool, len(users))
	names := make([]string, 0, len(users))
	for _, u := range users {
		if seen[u.Username] {
			continue
		}
		seen[u.Username] = true
		names = append(names, u.Username)
	}

	return &models.UserList{Usernames: names, Total: len(names)}, nil
}

// Backup uploads one CSV snapshot per table under prefix/<timestamp>/.
func (s *adminService) Backup(ctx context.Context, sess *session.Session) (*models.BackupResult, error) {
	if !sess.IsAdmin {
		return nil, ErrForbidden
	}
	if s.backups == nil {
		return nil, ErrBackupDisabled
	}

	snapshots, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format("20060102T150405Z")
	result := &models.BackupResult{}
	for _, snap := range snapshots {
		name := path.Join(s.prefix, stamp, snap.name)
		if err := s.backups.Upload(ctx, name, snap.body, "text/csv"); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", snap.name, err)
		}
		result.Objects = append(result.Objects, name)
	}

	s.logger.Info().
		Str("username", sess.Username).
		Strs("objects", result.Objects).
		Msg("Backup completed")

	return result, nil
}

type tableSnapshot struct {
	name string
	body []byte
}

func (s *adminService) snapshot(ctx context.Context) ([]tableSnapshot, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	subjects, err := s.store.Subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read subjects: %w", err)
	}
	entries, err := s.store.Logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	var snaps []tableSnapshot
	add := func(name string, write func(w io.Writer) error) error {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		snaps = append(snaps, tableSnapshot{name: name, body: buf.Bytes()})
		return nil
	}

	if err := add("users.csv", func(w io.Writer) error { return repository.WriteUsersCSV(w, users) }); err != nil {
		return nil, err
	}
	if err := add("subjects.csv", func(w io.Writer) error { return repository.WriteSubjectsCSV(w, subjects) }); err != nil {
		return nil, err
	}
	if err := add("logs.csv", func(w io.Writer) error { return repository.WriteLogsCSV(w, entries) }); err != nil {
		return nil, err
	}

	return snaps, nil
}
