package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

type userRepo struct {
	logger zerolog.Logger
	db     DB
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   username,
                   password_hash,
                   first_name,
                   last_name,
                   is_active,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.db.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				r.logger.Warn().
					Str("username", user.Username).
					Msg("username already taken")
				return repository.ErrUsernameTaken
			}

			r.logger.Warn().
				Str("email", user.Email).
				Msg("email already registered")
			return repository.ErrEmailTaken
		}

		r.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")

	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id,
       email,
       username,
       password_hash,
       first_name,
       last_name,
       is_active,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	return r.selectUser(ctx, selectUserByIDQuery, id)
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id,
       email,
       username,
       password_hash,
       first_name,
       last_name,
       is_active,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	return r.selectUser(ctx, selectUserByEmailQuery, email)
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = `
SELECT id,
       email,
       username,
       password_hash,
       first_name,
       last_name,
       is_active,
       created_at,
       updated_at
FROM users
WHERE username = $1
`
	return r.selectUser(ctx, selectUserByUsernameQuery, username)
}

func (r *userRepo) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := new(models.User)
	err := r.db.QueryRow(
		ctx,
		query,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}

		r.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}
