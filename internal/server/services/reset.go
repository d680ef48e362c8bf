package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// resetTokenBytes is the entropy of a reset token (256 bits).
const resetTokenBytes = 32

// resetIssueAttempts bounds retries on a token collision.
const resetIssueAttempts = 3

// ResetService runs the password reset ledger: issuing single-use tokens,
// checking them and consuming them to set a new password.
//
// A token is valid while now - created_at < ttl. Expired rows are removed
// lazily on a consume attempt, or in bulk by Sweep.
type ResetService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	hasher         *cryptox.Hasher
	ttl            time.Duration
	retention      time.Duration
	revokeSiblings bool
	log            logging.Logger

	now      func() time.Time
	newToken func() (string, error)
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.Hasher, cfg *config.Config, log logging.Logger) *ResetService {
	return &ResetService{
		db:             db,
		repomanager:    m,
		hasher:         hasher,
		ttl:            cfg.ResetTokenValidityDuration,
		retention:      cfg.ResetTokenRetention,
		revokeSiblings: cfg.RevokeSiblingResetTokens,
		log:            log.With("service", "resets"),
		now:            time.Now,
		newToken:       func() (string, error) { return common.MakeRandURLString(resetTokenBytes) },
	}
}

// Issue creates a reset token for the account with the given email and
// returns it. Unknown emails yield common.ErrUnknownEmail. Other tokens of
// the same user stay valid.
func (s *ResetService) Issue(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUnknownEmail
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	repo := s.repomanager.PasswordResets(s.db)
	for attempt := 1; attempt <= resetIssueAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("error generating token: %w", err)
		}
		_, err = repo.Create(ctx, &models.PasswordReset{
			UserID:    user.ID,
			Token:     token,
			CreatedAt: s.now().Unix(),
		})
		if err == nil {
			s.log.Info(ctx, "reset token issued", "user_id", user.ID)
			return token, nil
		}
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return "", fmt.Errorf("error storing token: %w", err)
		}
		s.log.Warn(ctx, "reset token collision", "attempt", attempt)
	}
	return "", fmt.Errorf("%w: could not allocate a unique reset token", common.ErrorInternal)
}

// Validate returns the user id bound to token. Unknown tokens yield
// common.ErrInvalidToken and tokens ttl or more old yield
// common.ErrTokenExpired. Nothing is deleted.
func (s *ResetService) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrInvalidToken
	}
	reset, err := s.find(ctx, s.db, token)
	if err != nil {
		return 0, err
	}
	if reset.Expired(s.now(), s.ttl) {
		return 0, common.ErrTokenExpired
	}
	return reset.UserID, nil
}

// Consume checks token and, if valid, deletes it and sets newPassword for
// its user, all in one transaction. Two consumers of the same token cannot
// both succeed: the delete must remove exactly one row.
//
// An expired token is deleted and the deletion committed before
// common.ErrTokenExpired is returned.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return common.ErrInvalidToken
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	// hash outside the transaction, bcrypt is slow
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	var expired bool
	var userID int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		resets := s.repomanager.PasswordResets(tx)

		reset, err := s.find(ctx, tx, token)
		if err != nil {
			return err
		}

		n, err := resets.Delete(ctx, token)
		if err != nil {
			return fmt.Errorf("error deleting token: %w", err)
		}
		if n != 1 {
			return common.ErrInvalidToken
		}

		if reset.Expired(s.now(), s.ttl) {
			expired = true
			return nil
		}

		if s.revokeSiblings {
			if _, err := resets.DeleteByUser(ctx, reset.UserID); err != nil {
				return fmt.Errorf("error revoking tokens: %w", err)
			}
		}

		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, reset.UserID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		userID = reset.UserID
		return nil
	})
	if err != nil {
		return err
	}
	if expired {
		return common.ErrTokenExpired
	}

	s.log.Info(ctx, "password reset", "user_id", userID)
	return nil
}

// Sweep deletes tokens older than the retention period and returns how
// many went away.
func (s *ResetService) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention).Unix()
	n, err := s.repomanager.PasswordResets(s.db).DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error sweeping tokens: %w", err)
	}
	s.log.Info(ctx, "reset tokens swept", "deleted", n)
	return n, nil
}

func (s *ResetService) find(ctx context.Context, db dbx.DBTX, token string) (*models.PasswordReset, error) {
	reset, err := s.repomanager.PasswordResets(db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}
	return reset, nil
}
