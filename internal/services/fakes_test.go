package services

import (
	"context"
	"time"

	"github.com/azemskov/tasktrack/internal/mail"
	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

// fakeStore is an in-memory repository.Store. It implements all
// three repositories itself and hands itself out for transactions,
// which is enough here: the services under test never rely on
// rollback, only on the first failing write aborting the flow.
type fakeStore struct {
	users    map[string]*models.User
	sessions map[string]*models.Session
	tasks    map[string]*models.Task

	taskOrder []string

	createSessionErr error
	markEmailSentErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
		tasks:    make(map[string]*models.Task),
	}
}

func (f *fakeStore) Users() repository.UserRepository       { return f }
func (f *fakeStore) Sessions() repository.SessionRepository { return f }
func (f *fakeStore) Tasks() repository.TaskRepository       { return f }

func (f *fakeStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, exists := f.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) CreateSession(_ context.Context, session *models.Session) error {
	if f.createSessionErr != nil {
		return f.createSessionErr
	}

	clone := *session
	f.sessions[session.Token] = &clone
	return nil
}

func (f *fakeStore) GetSessionByToken(_ context.Context, token string) (*models.Session, error) {
	session, exists := f.sessions[token]
	if !exists {
		return nil, repository.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeStore) DeleteSessionByToken(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) CreateTask(_ context.Context, task *models.Task) error {
	clone := *task
	f.tasks[task.ID] = &clone
	f.taskOrder = append(f.taskOrder, task.ID)
	return nil
}

func (f *fakeStore) GetTasksByUserID(_ context.Context, userID string) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, id := range f.taskOrder {
		task := f.tasks[id]
		if task != nil && task.UserID == userID {
			clone := *task
			tasks = append(tasks, &clone)
		}
	}
	return tasks, nil
}

func (f *fakeStore) GetTaskByID(_ context.Context, userID, taskID string) (*models.Task, error) {
	task, exists := f.tasks[taskID]
	if !exists || task.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, task *models.Task) error {
	existing, exists := f.tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return repository.ErrTaskNotFound
	}

	clone := *task
	clone.EmailSent = existing.EmailSent
	f.tasks[task.ID] = &clone
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, userID, taskID string) error {
	task, exists := f.tasks[taskID]
	if !exists || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeStore) GetDueTasks(_ context.Context, dueDate time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, id := range f.taskOrder {
		task := f.tasks[id]
		if task == nil || task.Resolved || task.EmailSent ||
			task.DueTime == nil || task.DueDate == nil {
			continue
		}

		y1, m1, d1 := task.DueDate.Date()
		y2, m2, d2 := dueDate.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			clone := *task
			tasks = append(tasks, &clone)
		}
	}
	return tasks, nil
}

func (f *fakeStore) MarkEmailSent(_ context.Context, taskID string) error {
	if f.markEmailSentErr != nil {
		return f.markEmailSentErr
	}

	task, exists := f.tasks[taskID]
	if !exists {
		return repository.ErrTaskNotFound
	}
	task.EmailSent = true
	return nil
}

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}
