package repository

import (
	"context"
	"errors"
	"time"

	"github.com/azemskov/tasktrack/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrSessionNotFound = errors.New("session not found")
	ErrTaskNotFound    = errors.New("task not found")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteSessionByToken is a no-op success for unknown tokens.
	DeleteSessionByToken(ctx context.Context, token string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error)
	// GetTaskByID is owner-scoped: a task owned by another user
	// is reported as ErrTaskNotFound.
	GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
	// GetDueTasks selects the reminder candidates: unresolved tasks
	// due on the given date with a due time set and no email sent yet.
	GetDueTasks(ctx context.Context, dueDate time.Time) ([]*models.Task, error)
	// MarkEmailSent is the only writer of the email_sent flag.
	MarkEmailSent(ctx context.Context, taskID string) error
}

// Store is the storage collaborator injected into the services.
// WithTx runs fn against a store bound to a single transaction,
// committing on nil and rolling back on error.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Tasks() TaskRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
