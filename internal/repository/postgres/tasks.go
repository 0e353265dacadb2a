package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

type taskRepo struct {
	logger zerolog.Logger
	db     DB
}

const taskColumns = `id,
       user_id,
       title,
       description,
       due_date,
       due_time,
       start_date,
       priority,
       status,
       resolved,
       email_sent,
       created_at,
       updated_at`

func (r *taskRepo) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   due_date,
                   due_time,
                   start_date,
                   priority,
                   status,
                   resolved,
                   email_sent,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`
	_, err := r.db.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.DueTime,
		task.StartDate,
		task.Priority,
		task.Status,
		task.Resolved,
		task.EmailSent,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	return nil
}

func (r *taskRepo) GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id = $1
ORDER BY created_at
`
	rows, err := r.db.Query(
		ctx,
		selectTasksByUserIDQuery,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}

	return r.scanTasks(rows)
}

func (r *taskRepo) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1 AND user_id = $2
`
	task := new(models.Task)
	err := r.scanTask(r.db.QueryRow(ctx, selectTaskByIDQuery, taskID, userID), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTaskNotFound
		}

		r.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	return task, nil
}

func (r *taskRepo) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    due_time = $4,
    start_date = $5,
    priority = $6,
    status = $7,
    resolved = $8,
    updated_at = $9
WHERE id = $10 AND user_id = $11
`
	tag, err := r.db.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.DueTime,
		task.StartDate,
		task.Priority,
		task.Status,
		task.Resolved,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTaskNotFound
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	return nil
}

func (r *taskRepo) DeleteTask(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := r.db.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTaskNotFound
	}
	r.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")

	return nil
}

func (r *taskRepo) GetDueTasks(ctx context.Context, dueDate time.Time) ([]*models.Task, error) {
	const selectDueTasksQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE resolved = FALSE AND
      email_sent = FALSE AND
      due_time IS NOT NULL AND
      due_date = $1
`
	rows, err := r.db.Query(
		ctx,
		selectDueTasksQuery,
		dueDate,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select due tasks")
		return nil, err
	}

	return r.scanTasks(rows)
}

func (r *taskRepo) MarkEmailSent(ctx context.Context, taskID string) error {
	const markEmailSentQuery = `
UPDATE tasks
SET email_sent = TRUE,
    updated_at = $1
WHERE id = $2
`
	tag, err := r.db.Exec(
		ctx,
		markEmailSentQuery,
		time.Now(),
		taskID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to mark email sent")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTaskNotFound
	}
	r.logger.Debug().
		Str("task_id", taskID).
		Msg("marked email sent")

	return nil
}

func (r *taskRepo) scanTasks(rows pgx.Rows) ([]*models.Task, error) {
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := new(models.Task)
		err := r.scanTask(rows, task)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err := rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) scanTask(row pgx.Row, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.DueTime,
		&task.StartDate,
		&task.Priority,
		&task.Status,
		&task.Resolved,
		&task.EmailSent,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}
