package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/azemskov/tasktrack/internal/mail"
	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/repository"
)

// reminderWindow is the send-eligibility threshold: a candidate is
// emailed when its due moment is already past or arrives within this
// window. Anything further out waits for a later scan.
const reminderWindow = 15 * time.Minute

type reminderServiceImpl struct {
	logger zerolog.Logger
	store  repository.Store
	mailer mail.Mailer
	now    func() time.Time
}

func NewReminderService(
	logger zerolog.Logger,
	store repository.Store,
	mailer mail.Mailer,
) ReminderService {
	return &reminderServiceImpl{
		logger: logger,
		store:  store,
		mailer: mailer,
		now:    time.Now,
	}
}

func (s *reminderServiceImpl) SendDueReminders(ctx context.Context) (*ReminderReport, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	tasks, err := s.store.Tasks().GetDueTasks(ctx, today)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select due tasks")
		return nil, err
	}

	report := &ReminderReport{Candidates: len(tasks)}
	for _, task := range tasks {
		s.evaluateTask(ctx, now, task, report)
	}

	s.logger.Info().
		Int("candidates", report.Candidates).
		Int("sent", report.Sent).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("reminder scan finished")
	return report, nil
}

// evaluateTask decides send-eligibility for one candidate and, when
// eligible, dispatches the email and marks the task sent. Failures
// are counted and logged; they never abort the scan.
func (s *reminderServiceImpl) evaluateTask(ctx context.Context, now time.Time, task *models.Task, report *ReminderReport) {
	if task.DueTime == nil {
		// The candidate query excludes these; guard anyway.
		report.Skipped++
		return
	}

	hour, minute, err := models.ParseClockTime(*task.DueTime)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("malformed due time")
		report.Failed++
		return
	}

	due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if due.Sub(now) >= reminderWindow {
		report.Skipped++
		return
	}

	owner, err := s.store.Users().GetUserByID(ctx, task.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task owner not found")
		} else {
			s.logger.Error().
				Err(err).
				Str("task_id", task.ID).
				Msg("failed to select task owner")
		}
		report.Failed++
		return
	}

	if owner.Email == "" {
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("user_id", owner.ID).
			Msg("owner has no email address")
		report.Skipped++
		return
	}

	err = s.mailer.Send(ctx, reminderMessage(owner, task))
	if err != nil {
		// email_sent stays false, so the next scan retries.
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to send reminder email")
		report.Failed++
		return
	}

	err = s.store.Tasks().MarkEmailSent(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to mark email sent")
		report.Failed++
		return
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", owner.ID).
		Msg("sent reminder")
	report.Sent++
}

func reminderMessage(owner *models.User, task *models.Task) mail.Message {
	return mail.Message{
		To:      owner.Email,
		Subject: fmt.Sprintf("Reminder: %s is due!", task.Title),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour task '%s' is due at %s.\n\nDescription: %s\n\nGood luck!",
			owner.Username, task.Title, *task.DueTime, task.Description,
		),
	}
}
