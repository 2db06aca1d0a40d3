package service

import (
	"context"
	"tildy/internal/domain/entity"
)

// SchedulerService defines the interface for scheduling operations.
type SchedulerService interface {
	// ScheduleReminder registers the delivery job for a reminder, plus the
	// advance-warning job when requested and still reachable.
	ScheduleReminder(ctx context.Context, reminder *entity.Reminder) error
	// CancelReminderSchedule cancels any pending jobs for a reminder.
	// Cancelling a reminder with no pending jobs is a no-op.
	CancelReminderSchedule(ctx context.Context, reminderID uint) error
	// InitializeSchedules reconciles in-memory jobs with the store on
	// startup: past reminders are delivered immediately, future ones are
	// rescheduled for the remaining delay.
	InitializeSchedules(ctx context.Context) error
	// Stop stops the underlying scheduler.
	Stop()
}
