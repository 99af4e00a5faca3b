package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	SignIn(ctx context.Context, req *models.LoginRequest) (*session.Session, error)
	SignOut(ctx context.Context, token string) bool
	IsAdmin(username string) bool
}

type AuthConfig struct {
	AdminUsername string
	// AdminPasswordBypass keeps the legacy behaviour where the admin name
	// signs in with any password, registered or not.
	AdminPasswordBypass bool
	BcryptCost          int
}

type authService struct {
	userRepo  repository.UserRepository
	sessions  *session.Manager
	publisher integration.EventPublisher
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions *session.Manager,
	publisher integration.EventPublisher,
	cfg AuthConfig,
	logger zerolog.Logger,
) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:  userRepo,
		sessions:  sessions,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("User registered")

	notify(ctx, s.publisher, s.logger, &models.ActivityEvent{
		Type:      models.EventUserRegistered,
		Username:  user.Username,
		Timestamp: user.CreatedAt.Unix(),
	})

	return user, nil
}

func (s *authService) SignIn(ctx context.Context, req *models.LoginRequest) (*session.Session, error) {
	// Usernames are stored trimmed by Register.
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, ErrInvalidCredentials
	}

	isAdmin := s.IsAdmin(req.Username)
	if isAdmin && s.cfg.AdminPasswordBypass {
		s.logger.Warn().Str("username", req.Username).Msg("Admin signed in without password check")
		return s.sessions.Create(req.Username, true), nil
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info().Str("username", req.Username).Msg("Sign-in rejected")
		return nil, ErrInvalidCredentials
	}

	return s.sessions.Create(user.Username, isAdmin), nil
}

func (s *authService) SignOut(ctx context.Context, token string) bool {
	return s.sessions.Destroy(token)
}

func (s *authService) IsAdmin(username string) bool {
	return username != "" && username == s.cfg.AdminUsername
}
