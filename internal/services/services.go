package services

import (
	"context"
	"errors"
	"time"

	"github.com/azemskov/tasktrack/internal/models"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid session token")
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyTaskTitle      = errors.New("task title must not be empty")
	ErrTaskTitleTooLong    = errors.New("task title is too long")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidDueTime      = errors.New("invalid due time")
)

type AuthService interface {
	// Register creates a user with a hashed password and issues a
	// fresh session token. The user and the session are committed
	// in one transaction.
	//
	// It returns ErrEmailTaken or ErrUsernameTaken when the
	// corresponding field is already registered.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates by email or username plus password and
	// issues a fresh session token.
	//
	// Every failure mode (unknown identifier, wrong password,
	// deactivated user) is reported as ErrInvalidCredentials so
	// callers cannot probe which part was wrong.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Logout revokes the session token. Revoking an unknown or
	// already revoked token is a no-op success.
	Logout(ctx context.Context, token string) error

	// ResolveToken returns the user owning the token, or
	// ErrInvalidToken if the session is unknown or expired.
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	// UpdateTask applies only the non-nil fields of params and
	// refreshes updated_at.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	ToggleResolved(ctx context.Context, userID, taskID string) (*models.Task, error)
	SetStatus(ctx context.Context, userID, taskID, status string) (*models.Task, error)
}

// ReminderService scans tasks due today and emails their owners.
// One call is one full scan; it is meant to be driven by an external
// scheduler at a cadence of 15 minutes or less.
type ReminderService interface {
	SendDueReminders(ctx context.Context) (*ReminderReport, error)
}

type RegisterParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type LoginParams struct {
	// Identifier is either an email or a username.
	Identifier string
	Password   string
}

type AuthResult struct {
	User           *models.User
	Token          string
	TokenExpiresAt time.Time
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	DueDate     *time.Time
	DueTime     *string
	StartDate   *time.Time
	Priority    string
	Status      string
}

type UpdateTaskParams struct {
	UserID      string
	TaskID      string
	Title       *string
	Description *string
	DueDate     *time.Time
	DueTime     *string
	StartDate   *time.Time
	Priority    *string
	Status      *string
	Resolved    *bool
}

type ReminderReport struct {
	Candidates int
	Sent       int
	Skipped    int
	Failed     int
}
