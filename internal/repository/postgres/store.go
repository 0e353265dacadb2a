package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/repository"
)

// DB is the subset of pgxpool.Pool the store needs. pgx.Tx satisfies
// it too, which is what lets WithTx reuse the same repositories
// inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	logger zerolog.Logger
	db     DB
}

func NewStore(logger zerolog.Logger, db DB) *Store {
	return &Store{
		logger: logger,
		db:     db,
	}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{logger: s.logger, db: s.db}
}

func (s *Store) Sessions() repository.SessionRepository {
	return &sessionRepo{logger: s.logger, db: s.db}
}

func (s *Store) Tasks() repository.TaskRepository {
	return &taskRepo{logger: s.logger, db: s.db}
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(NewStore(s.logger, tx))
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
