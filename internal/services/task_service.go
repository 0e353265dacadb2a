package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  repository.Store
}

func NewTaskService(
	logger zerolog.Logger,
	store repository.Store,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyTaskTitle
	}
	if len(params.Title) > models.MaxTaskTitleLength {
		return nil, ErrTaskTitleTooLong
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidTaskPriority
	}

	status := params.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	if params.DueTime != nil {
		if _, _, err := models.ParseClockTime(*params.DueTime); err != nil {
			return nil, ErrInvalidDueTime
		}
	}

	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		DueTime:     params.DueTime,
		StartDate:   params.StartDate,
		Priority:    priority,
		Status:      status,
		Resolved:    false,
		EmailSent:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.store.Tasks().CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.store.Tasks().GetTasksByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.store.Tasks().GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, s.mapTaskError(err, taskID, userID)
	}
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, ErrEmptyTaskTitle
		}
		if len(*params.Title) > models.MaxTaskTitleLength {
			return nil, ErrTaskTitleTooLong
		}
	}
	if params.Priority != nil && !models.ValidPriority(*params.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if params.Status != nil && !models.ValidStatus(*params.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if params.DueTime != nil {
		if _, _, err := models.ParseClockTime(*params.DueTime); err != nil {
			return nil, ErrInvalidDueTime
		}
	}

	task, err := s.store.Tasks().GetTaskByID(ctx, params.UserID, params.TaskID)
	if err != nil {
		return nil, s.mapTaskError(err, params.TaskID, params.UserID)
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.DueTime != nil {
		task.DueTime = params.DueTime
	}
	if params.StartDate != nil {
		task.StartDate = params.StartDate
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Resolved != nil {
		task.Resolved = *params.Resolved
	}
	task.UpdatedAt = time.Now()

	err = s.store.Tasks().UpdateTask(ctx, task)
	if err != nil {
		return nil, s.mapTaskError(err, params.TaskID, params.UserID)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	err := s.store.Tasks().DeleteTask(ctx, userID, taskID)
	if err != nil {
		return s.mapTaskError(err, taskID, userID)
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ToggleResolved(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.store.Tasks().GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, s.mapTaskError(err, taskID, userID)
	}

	task.Resolved = !task.Resolved
	task.UpdatedAt = time.Now()

	err = s.store.Tasks().UpdateTask(ctx, task)
	if err != nil {
		return nil, s.mapTaskError(err, taskID, userID)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("resolved", task.Resolved).
		Msg("toggled task resolution")
	return task, nil
}

func (s *taskServiceImpl) SetStatus(ctx context.Context, userID, taskID, status string) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.store.Tasks().GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, s.mapTaskError(err, taskID, userID)
	}

	task.Status = status
	task.UpdatedAt = time.Now()

	err = s.store.Tasks().UpdateTask(ctx, task)
	if err != nil {
		return nil, s.mapTaskError(err, taskID, userID)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", task.Status).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) mapTaskError(err error, taskID, userID string) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		// Cross-owner access lands here too, indistinguishable
		// from a genuinely missing task.
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Error().
		Err(err).
		Str("task_id", taskID).
		Msg("task operation failed")
	return err
}
