package v1

import (
	"context"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/services"
)

type fakeAuthService struct {
	registerFn     func(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error)
	loginFn        func(ctx context.Context, params services.LoginParams) (*services.AuthResult, error)
	logoutFn       func(ctx context.Context, token string) error
	resolveTokenFn func(ctx context.Context, token string) (*models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeAuthService) Login(ctx context.Context, params services.LoginParams) (*services.AuthResult, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx, token)
	}
	return nil
}

func (f *fakeAuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if f.resolveTokenFn != nil {
		return f.resolveTokenFn(ctx, token)
	}
	return nil, services.ErrInvalidToken
}

type fakeTaskService struct {
	createFn         func(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
	getTasksFn       func(ctx context.Context, userID string) ([]*models.Task, error)
	getTaskFn        func(ctx context.Context, userID, taskID string) (*models.Task, error)
	updateFn         func(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error)
	deleteFn         func(ctx context.Context, userID, taskID string) error
	toggleResolvedFn func(ctx context.Context, userID, taskID string) (*models.Task, error)
	setStatusFn      func(ctx context.Context, userID, taskID, status string) (*models.Task, error)
}

func (f *fakeTaskService) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	if f.createFn != nil {
		return f.createFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeTaskService) GetTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	if f.getTasksFn != nil {
		return f.getTasksFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeTaskService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if f.getTaskFn != nil {
		return f.getTaskFn(ctx, userID, taskID)
	}
	return nil, services.ErrTaskNotFound
}

func (f *fakeTaskService) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, params)
	}
	return nil, services.ErrTaskNotFound
}

func (f *fakeTaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, taskID)
	}
	return services.ErrTaskNotFound
}

func (f *fakeTaskService) ToggleResolved(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if f.toggleResolvedFn != nil {
		return f.toggleResolvedFn(ctx, userID, taskID)
	}
	return nil, services.ErrTaskNotFound
}

func (f *fakeTaskService) SetStatus(ctx context.Context, userID, taskID, status string) (*models.Task, error) {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, userID, taskID, status)
	}
	return nil, services.ErrTaskNotFound
}
