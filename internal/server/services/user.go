// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks, login sessions
// and password replacement.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// UserService provides account operations:
// - Register: create users with a unique email
// - Verify / Login: check credentials and mint a session token
// - Authenticate: turn a session token back into a user id
// - UpdatePassword: rehash and replace a password
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	hasher                  *cryptox.Hasher
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	log                     logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.Hasher, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		hasher:                  hasher,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		log:                     log.With("service", "users"),
	}
}

// Register creates a user. A taken email yields common.ErrDuplicateEmail;
// the unique index decides, there is no lookup beforehand.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Verify returns the user when email and password match. Unknown emails and
// wrong passwords both yield common.ErrInvalidCredentials; an unknown email
// still costs one bcrypt comparison.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !s.hasher.Check(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed session
// token valid for the configured session lifetime.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		s.log.Error(ctx, "session token signing failed", "error", err)
		return nil, "", common.ErrorInternal
	}
	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

// Authenticate validates a session token and returns the user id it carries.
// Any problem yields an error wrapping common.ErrUnauthenticated.
func (s *UserService) Authenticate(token string) (int64, error) {
	if token == "" {
		return 0, common.ErrUnauthenticated
	}
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// UpdatePassword rehashes newPassword and stores it for userID.
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users(s.db).UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// GetByEmail looks a user up by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
}

// normalizeEmail only trims surrounding blanks; case is kept as typed.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
