package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azemskov/tasktrack/internal/models"
)

func newTestReminderService(store *fakeStore, mailer *fakeMailer, now time.Time) ReminderService {
	svc := NewReminderService(zerolog.Nop(), store, mailer).(*reminderServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func seedReminderUser(store *fakeStore) *models.User {
	user := &models.User{
		ID:       "user-1",
		Email:    "alice@example.com",
		Username: "alice",
		IsActive: true,
	}
	store.users[user.ID] = user
	return user
}

func seedDueTask(store *fakeStore, id, userID string, dueDate time.Time, dueTime string) *models.Task {
	task := &models.Task{
		ID:          id,
		UserID:      userID,
		Title:       "write report",
		Description: "quarterly numbers",
		DueDate:     &dueDate,
		DueTime:     &dueTime,
		Priority:    models.PriorityNormal,
		Status:      models.StatusToDo,
	}
	store.tasks[id] = task
	store.taskOrder = append(store.taskOrder, id)
	return task
}

func TestReminderService_SendsOverdueTask(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	seedReminderUser(store)

	now := time.Date(2026, time.September, 1, 8, 10, 0, 0, time.UTC)
	seedDueTask(store, "task-1", "user-1", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Candidates)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Reminder: write report is due!", msg.Subject)
	assert.Contains(t, msg.Body, "Hi alice,")
	assert.Contains(t, msg.Body, "due at 08:00")
	assert.Contains(t, msg.Body, "quarterly numbers")

	assert.True(t, store.tasks["task-1"].EmailSent)
}

func TestReminderService_RescanDoesNotResend(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	seedReminderUser(store)

	now := time.Date(2026, time.September, 1, 8, 10, 0, 0, time.UTC)
	seedDueTask(store, "task-1", "user-1", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	_, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Candidates)
	assert.Equal(t, 0, report.Sent)
	assert.Len(t, mailer.sent, 1)
}

func TestReminderService_WindowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantSent int
	}{
		{
			// 20 minutes early: delta is 1200s, at or above the
			// 900s threshold, so the task waits for a later scan.
			name:     "twenty minutes early",
			now:      time.Date(2026, time.September, 1, 7, 40, 0, 0, time.UTC),
			wantSent: 0,
		},
		{
			name:     "exactly fifteen minutes early",
			now:      time.Date(2026, time.September, 1, 7, 45, 0, 0, time.UTC),
			wantSent: 0,
		},
		{
			name:     "just inside the window",
			now:      time.Date(2026, time.September, 1, 7, 45, 1, 0, time.UTC),
			wantSent: 1,
		},
		{
			name:     "long overdue",
			now:      time.Date(2026, time.September, 1, 23, 0, 0, 0, time.UTC),
			wantSent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			mailer := &fakeMailer{}
			seedReminderUser(store)
			seedDueTask(store, "task-1", "user-1", tt.now, "08:00")

			svc := newTestReminderService(store, mailer, tt.now)
			report, err := svc.SendDueReminders(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantSent, report.Sent)
			assert.Len(t, mailer.sent, tt.wantSent)
			assert.Equal(t, tt.wantSent == 1, store.tasks["task-1"].EmailSent)
		})
	}
}

func TestReminderService_MalformedTimeSkippedBatchContinues(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	seedReminderUser(store)

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	seedDueTask(store, "task-bad", "user-1", now, "25:99")
	seedDueTask(store, "task-ok", "user-1", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Candidates)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)

	assert.False(t, store.tasks["task-bad"].EmailSent)
	assert.True(t, store.tasks["task-ok"].EmailSent)
}

func TestReminderService_MissingOwnerSkipped(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	seedDueTask(store, "task-1", "ghost", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, mailer.sent)
	assert.False(t, store.tasks["task-1"].EmailSent)
}

func TestReminderService_TransportFailureLeavesFlagUnset(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{sendErr: assert.AnError}
	seedReminderUser(store)

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	seedDueTask(store, "task-1", "user-1", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	// Eligible for retry on the next scan.
	assert.False(t, store.tasks["task-1"].EmailSent)

	mailer.sendErr = nil
	report, err = svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.True(t, store.tasks["task-1"].EmailSent)
}

func TestReminderService_ResolvedAndDatelessTasksNotCandidates(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	seedReminderUser(store)

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	resolved := seedDueTask(store, "task-resolved", "user-1", now, "08:00")
	resolved.Resolved = true

	tomorrow := now.Add(24 * time.Hour)
	seedDueTask(store, "task-tomorrow", "user-1", tomorrow, "08:00")

	noTime := seedDueTask(store, "task-no-time", "user-1", now, "08:00")
	noTime.DueTime = nil

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Candidates)
	assert.Empty(t, mailer.sent)
}

func TestReminderService_MarkEmailSentFailureCounted(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	seedReminderUser(store)
	store.markEmailSentErr = assert.AnError

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	seedDueTask(store, "task-1", "user-1", now, "08:00")

	svc := newTestReminderService(store, mailer, now)
	report, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)

	// The email went out but the flag write failed; the scan reports
	// the failure instead of pretending the task is done.
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Sent)
}
