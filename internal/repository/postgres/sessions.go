package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

type sessionRepo struct {
	logger zerolog.Logger
	db     DB
}

func (r *sessionRepo) CreateSession(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (token,
                      user_id,
                      expires_at,
                      created_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.db.Exec(
		ctx,
		insertSessionQuery,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return err
	}
	r.logger.Debug().
		Str("user_id", session.UserID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")

	return nil
}

func (r *sessionRepo) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{
		Token: token,
	}

	const selectSessionByTokenQuery = `
SELECT user_id,
       expires_at,
       created_at
FROM sessions
WHERE token = $1
`
	err := r.db.QueryRow(
		ctx,
		selectSessionByTokenQuery,
		session.Token,
	).Scan(
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}

		r.logger.Error().
			Err(err).
			Msg("failed to select session by token")
		return nil, err
	}
	return session, nil
}

func (r *sessionRepo) DeleteSessionByToken(ctx context.Context, token string) error {
	const deleteSessionByTokenQuery = `
DELETE FROM sessions
WHERE token = $1
`
	// Deleting an unknown token is a no-op success.
	tag, err := r.db.Exec(
		ctx,
		deleteSessionByTokenQuery,
		token,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to delete session by token")
		return err
	}
	r.logger.Debug().
		Int64("affected", tag.RowsAffected()).
		Msg("deleted session by token")

	return nil
}
