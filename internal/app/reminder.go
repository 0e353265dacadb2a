package app

import (
	"context"

	"github.com/azemskov/tasktrack/internal/config"
	"github.com/azemskov/tasktrack/internal/mail"
	"github.com/azemskov/tasktrack/internal/repository/postgres"
	"github.com/azemskov/tasktrack/internal/services"
)

// RunReminderScan performs one reminder pass and reports how many
// candidates failed. The process exit code is derived from it so an
// external scheduler can notice partial failures.
func RunReminderScan() int {
	cfg := config.Global()

	mailer, err := mail.NewSMTPMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create mailer")
		return 1
	}

	store := postgres.NewStore(globalLogger, globalPostgresPool)
	reminderService := services.NewReminderService(globalLogger, store, mailer)

	report, err := reminderService.SendDueReminders(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("reminder scan failed")
		return 1
	}

	return report.Failed
}
