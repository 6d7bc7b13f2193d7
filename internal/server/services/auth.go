// Package services contains server-side business logic. This file
// implements AuthService: credential verification, session issuance,
// session validation, and session revocation over the opaque-token
// sessions table.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
)

const (
	// MinPasswordLength is the registration password policy.
	MinPasswordLength = 8

	// sessionTokenBytes of entropy per bearer token; hex-encoded the
	// token is twice this length.
	sessionTokenBytes = 32
)

// ClientMeta carries optional request metadata recorded on the session row.
type ClientMeta struct {
	IPAddress *string
	UserAgent *string
}

// AuthResult bundles the authenticated user's public fields with the
// issued bearer token and its expiry, so the transport layer can set the
// cookie and respond in one step.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService provides authentication operations:
//   - Register: create an account (and its profile) and log it in
//   - Login: verify credentials and issue a session, superseding old ones
//   - Validate: resolve a bearer token to its user
//   - Logout: revoke a session
//   - CleanupExpiredSessions: reclaim defunct session rows
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	sessionTTL  time.Duration
	bcryptCost  int

	// dummyHash is compared against when the user lookup misses, so the
	// failure path costs the same as a real password check and login
	// timing does not reveal whether an email is registered.
	dummyHash []byte
}

// NewAuthService constructs an AuthService using repositories and server
// config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("cajpro.timing.pad"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("generating pad hash: %w", err)
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "auth"),
		sessionTTL:  cfg.SessionTTL,
		bcryptCost:  cfg.BcryptCost,
		dummyHash:   dummy,
	}, nil
}

// Register creates a user with the given email and password, bootstraps
// its profile, and issues a session so registration doubles as a login.
// Accounts are active immediately; there is no email confirmation step.
//
// Returns common.ErrInvalidEmail, common.ErrWeakPassword, or
// common.ErrDuplicateEmail on validation failure and common.ErrorInternal
// when the store fails.
func (s *AuthService) Register(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	// Pre-check for a friendlier error; the unique index on LOWER(email)
	// still backstops concurrent registrations.
	if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "register: user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "register: hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, common.ErrDuplicateEmail) {
				return err
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if _, err := s.repomanager.Profiles(tx).Create(ctx, user.ID); err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}

		session, err := s.issueSession(ctx, tx, user.ID, meta)
		if err != nil {
			return err
		}

		result = &AuthResult{User: user.Public(), Token: session.Token, ExpiresAt: session.ExpiresAt}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "register: transaction failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "userID", result.User.ID)
	return result, nil
}

// Login verifies the credentials and, on success, atomically revokes any
// existing active sessions for the user, issues a fresh one, and records
// the sign-in time. "No such user", "deactivated user", and "wrong
// password" all fail with the same common.ErrInvalidCredentials and the
// same hashing cost.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.padCompare(password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login: user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		s.padCompare(password)
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// Single-active-session policy: a new login supersedes every
		// session the user had.
		if err := s.repomanager.Sessions(tx).DeactivateByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("superseding sessions: %w", err)
		}

		session, err := s.issueSession(ctx, tx, user.ID, meta)
		if err != nil {
			return err
		}

		if err := s.repomanager.Users(tx).TouchLastSignIn(ctx, user.ID); err != nil {
			return fmt.Errorf("recording sign-in: %w", err)
		}

		now := time.Now()
		user.LastSignInAt = &now
		result = &AuthResult{User: user.Public(), Token: session.Token, ExpiresAt: session.ExpiresAt}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "login: transaction failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "userID", user.ID)
	return result, nil
}

// Validate resolves a bearer token to the owning user's public fields.
// It returns (nil, nil) for every unauthenticated outcome — unknown
// token, revoked or expired session, deactivated owner — without
// distinguishing them; a missing user is a normal, frequent result here,
// not an error. Errors are reserved for store failures.
func (s *AuthService) Validate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "validate: session lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !session.Usable(time.Now()) {
		return nil, nil
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "validate: user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, nil
	}

	return user.Public(), nil
}

// Logout revokes the session matching the token. It is idempotent:
// revoking an unknown or already revoked token still succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) (bool, error) {
	if _, err := s.repomanager.Sessions(s.db).Deactivate(ctx, token); err != nil {
		s.logger.Error(ctx, "logout failed", "error", err)
		return false, common.ErrorInternal
	}
	return true, nil
}

// CleanupExpiredSessions deletes session rows that are revoked or past
// expiry. Purely storage reclamation: a session that is both active and
// unexpired is never touched, and skipping a sweep only defers disk
// growth.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteDefunct(ctx, time.Now())
	if err != nil {
		s.logger.Error(ctx, "session cleanup failed", "error", err)
		return 0, common.ErrorInternal
	}
	if n > 0 {
		s.logger.Info(ctx, "reclaimed defunct sessions", "count", n)
	}
	return n, nil
}

// Profile returns the user's profile record.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "profile lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

// UpdateProfile replaces the user's profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, fullName, avatarURL, bio string) (*models.Profile, error) {
	repo := s.repomanager.Profiles(s.db)
	if err := repo.Update(ctx, &models.Profile{
		UserID:    userID,
		FullName:  fullName,
		AvatarURL: avatarURL,
		Bio:       bio,
	}); err != nil {
		s.logger.Error(ctx, "profile update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return repo.GetByUserID(ctx, userID)
}

// issueSession creates one new active session with a fresh random token.
func (s *AuthService) issueSession(ctx context.Context, tx dbx.DBTX, userID string, meta ClientMeta) (*models.Session, error) {
	token, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	session, err := s.repomanager.Sessions(tx).Create(ctx, &models.Session{
		UserID:    userID,
		Token:     token,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// padCompare burns a bcrypt verification against a throwaway hash.
func (s *AuthService) padCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func validateEmail(email string) error {
	if email == "" {
		return common.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.ErrInvalidEmail
	}
	return nil
}
