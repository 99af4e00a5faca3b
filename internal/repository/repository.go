package repository

import (
	"context"
	"errors"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type UserRepository interface {
	// Create fails with ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) error
	// GetByUsername returns nil, nil when no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	// GetByID returns nil, nil when no such subject exists.
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	// Update and Delete fail with ErrNotFound for an unknown id.
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// LogRepository lists entries in insertion order.
type LogRepository interface {
	Append(ctx context.Context, entry *models.LogEntry) error
	ListByOwner(ctx context.Context, owner string) ([]models.LogEntry, error)
	List(ctx context.Context) ([]models.LogEntry, error)
}

// Store bundles the three tables behind one lifecycle.
type Store struct {
	Users    UserRepository
	Subjects SubjectRepository
	Logs     LogRepository
	closer   func() error
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
