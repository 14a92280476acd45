// Package services contains server-side business logic. This file implements
// UserService: registration, login and session token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/cryptox"
	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/server/auth"
	"github.com/dmitrijs2005/piiquante/internal/server/config"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/piiquante/internal/validation"
)

const minPasswordLength = 8

// Session is what a successful login hands back to the client.
type Session struct {
	UserID string
	Token  string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      *auth.TokenSigner
	validator   *validation.Validator
	tokenTTL    time.Duration
	logger      logging.Logger

	// dummyHash is compared against when the email is unknown, so a failed
	// login costs the same bcrypt work either way.
	dummyHash []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*UserService, error) {
	pw, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}
	dummy, err := cryptox.HashPassword([]byte(pw))
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		signer:      auth.NewTokenSigner([]byte(cfg.SecretKey)),
		validator:   validation.New(),
		tokenTTL:    cfg.TokenTTL,
		logger:      logger.With("module", "users"),
		dummyHash:   dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. It fails with a validation error for a malformed
// email or a password outside 8..72 bytes, and with common.ErrorAlreadyExists
// for a taken email.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := s.validator.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	switch {
	case len(password) < minPasswordLength:
		return nil, common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case len(password) > cryptox.MaxPasswordLength:
		return nil, common.NewValidationError("password", fmt.Sprintf("must not exceed %d characters", cryptox.MaxPasswordLength))
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password are both common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.ComparePassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !cryptox.ComparePassword(user.PasswordHash, []byte(password)) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.signer.Sign(user.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}

	return &Session{UserID: user.ID, Token: token}, nil
}

// Verify returns the user id carried by a valid session token.
func (s *UserService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	claims, err := s.signer.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return claims.UserID, nil
}
