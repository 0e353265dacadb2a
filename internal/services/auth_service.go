package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

type authServiceImpl struct {
	logger     zerolog.Logger
	store      repository.Store
	sessionTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	store repository.Store,
	sessionTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:     logger,
		store:      store,
		sessionTTL: sessionTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	now := time.Now()
	user := &models.User{
		Email:     params.Email,
		Username:  params.Username,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.PasswordHash = passwordHash

	session, err := s.newSession(user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session token")
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, session)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to register user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return &AuthResult{
		User:           user,
		Token:          session.Token,
		TokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.findUser(ctx, params.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn().Msg("login for unknown identifier")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("login for deactivated user")
		return nil, ErrInvalidCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	session, err := s.newSession(user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session token")
		return nil, err
	}

	err = s.store.Sessions().CreateSession(ctx, session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create session")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &AuthResult{
		User:           user,
		Token:          session.Token,
		TokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	err := s.store.Sessions().DeleteSessionByToken(ctx, token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to revoke session")
		return err
	}

	s.logger.Info().Msg("logged out")
	return nil
}

func (s *authServiceImpl) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	session, err := s.store.Sessions().GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select session")
		return nil, err
	}

	if session.Expired(time.Now()) {
		s.logger.Debug().
			Str("user_id", session.UserID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		// Expired sessions are garbage; drop the row on sight.
		_ = s.store.Sessions().DeleteSessionByToken(ctx, token)
		return nil, ErrInvalidToken
	}

	user, err := s.store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn().
				Str("user_id", session.UserID).
				Msg("session for missing user")
			return nil, ErrInvalidToken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

// findUser resolves a login identifier, trying email first and
// falling back to username.
func (s *authServiceImpl) findUser(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.store.Users().GetUserByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	return s.store.Users().GetUserByUsername(ctx, identifier)
}

func (s *authServiceImpl) newSession(userID string) (*models.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}, nil
}

func generateSessionToken() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
