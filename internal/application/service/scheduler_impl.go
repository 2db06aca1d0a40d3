package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tildy/internal/domain/entity"
	"tildy/internal/domain/repository"
	"tildy/internal/infrastructure/scheduler"
	appErrors "tildy/internal/pkg/errors"
	"tildy/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	jobTypeNotify  = "notify"
	jobTypeAdvance = "advance"

	// advanceWarningLead is how far before the fire time the optional
	// advance warning is delivered.
	advanceWarningLead = 15 * time.Minute
)

// timeNow is swapped out in tests.
var timeNow = time.Now

type schedulerService struct {
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	// The delivery handler lives on the reminder service, which needs this
	// service to schedule; it is injected after construction to break the
	// cycle.
	handleNotificationFunc func(ctx context.Context, reminderID uint, advance bool) error
	log                    logger.Logger
	// map[reminderID]map[jobType]cron.EntryID
	jobStore map[uint]map[string]cron.EntryID
	mu       sync.Mutex
}

// NewSchedulerService creates a new instance of SchedulerService.
// The notification handler must be set before any job can fire.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		log:           log,
		jobStore:      make(map[uint]map[string]cron.EntryID),
	}
}

// SetNotificationHandler sets the function invoked when a delivery or
// advance-warning job fires. Called during dependency injection setup.
func (s *schedulerService) SetNotificationHandler(handler func(ctx context.Context, reminderID uint, advance bool) error) {
	s.handleNotificationFunc = handler
}

// formatCronSpec generates a one-shot cron spec for a specific time. The
// cron evaluates specs against server-local wall time, so the instant is
// converted first; reminder dates carry the requester's zone. The job is
// removed after its first firing, so the yearly recurrence implied by the
// spec never happens.
func formatCronSpec(t time.Time) string {
	t = t.In(time.Local)
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), t.Month())
}

func (s *schedulerService) storeJobID(reminderID uint, jobType string, entryID cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobStore[reminderID]; !ok {
		s.jobStore[reminderID] = make(map[string]cron.EntryID)
	}
	s.jobStore[reminderID][jobType] = entryID
}

func (s *schedulerService) removeJobID(reminderID uint, jobType string) (cron.EntryID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jobs, ok := s.jobStore[reminderID]; ok {
		if entryID, exists := jobs[jobType]; exists {
			delete(jobs, jobType)
			if len(jobs) == 0 {
				delete(s.jobStore, reminderID)
			}
			return entryID, true
		}
	}
	return 0, false
}

// registerJob adds a one-shot job firing at t that invokes the
// notification handler and then discards its own handle.
func (s *schedulerService) registerJob(reminderID uint, jobType string, t time.Time, advance bool) error {
	jobFunc := func() {
		s.log.Info(fmt.Sprintf("Executing %s job for reminder %d", jobType, reminderID))
		if err := s.handleNotificationFunc(context.Background(), reminderID, advance); err != nil {
			s.log.Error(fmt.Sprintf("Error handling %s delivery for reminder %d", jobType, reminderID), err)
		}
		s.removeJobID(reminderID, jobType)
	}

	entryID, err := s.cronScheduler.AddJob(formatCronSpec(t), jobFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	s.storeJobID(reminderID, jobType, entryID)
	s.log.Info(fmt.Sprintf("Scheduled %s for reminder %d at %s (job %d)", jobType, reminderID, t.Format(time.RFC3339), entryID))
	return nil
}

// ScheduleReminder registers the delivery job for a reminder, and the
// advance-warning job when requested. Only registered after the record is
// persisted, which guarantees creation precedes delivery and cancellation.
func (s *schedulerService) ScheduleReminder(ctx context.Context, reminder *entity.Reminder) error {
	if s.handleNotificationFunc == nil {
		s.log.Error("Notification handler function is not set in SchedulerService", nil)
		return fmt.Errorf("%w: notification handler not set", appErrors.ErrInternalServer)
	}
	now := timeNow()
	if reminder.Date.IsZero() || !reminder.Date.After(now) {
		s.log.Warn(fmt.Sprintf("Attempted to schedule reminder %d with past or zero time: %v", reminder.ID, reminder.Date))
		return fmt.Errorf("%w: cannot schedule reminder with past or zero time", appErrors.ErrScheduling)
	}

	// Rescheduling replaces any existing jobs for this reminder.
	if err := s.CancelReminderSchedule(ctx, reminder.ID); err != nil {
		return err
	}

	if err := s.registerJob(reminder.ID, jobTypeNotify, reminder.Date, false); err != nil {
		return err
	}

	if reminder.Remind15MinutesBefore {
		advanceAt := reminder.Date.Add(-advanceWarningLead)
		if advanceAt.After(now) {
			if err := s.registerJob(reminder.ID, jobTypeAdvance, advanceAt, true); err != nil {
				return err
			}
		} else {
			// Too late for a warning; the main delivery still stands.
			s.log.Info(fmt.Sprintf("Skipping advance warning for reminder %d: warning point %s already passed", reminder.ID, advanceAt.Format(time.RFC3339)))
		}
	}
	return nil
}

// CancelReminderSchedule cancels any pending jobs for a reminder.
func (s *schedulerService) CancelReminderSchedule(ctx context.Context, reminderID uint) error {
	for _, jobType := range []string{jobTypeNotify, jobTypeAdvance} {
		if entryID, ok := s.removeJobID(reminderID, jobType); ok {
			s.cronScheduler.RemoveJob(entryID)
			s.log.Info(fmt.Sprintf("Cancelled %s schedule for reminder %d (job %d)", jobType, reminderID, entryID))
		} else {
			s.log.Debug(fmt.Sprintf("No pending %s schedule for reminder %d to cancel.", jobType, reminderID))
		}
	}
	return nil
}

// InitializeSchedules loads reminders from the store and re-derives
// scheduling on startup. Reminders whose fire time passed while the
// process was down are delivered immediately rather than dropped; the
// delivery handler removes them from the store.
func (s *schedulerService) InitializeSchedules(ctx context.Context) error {
	if s.handleNotificationFunc == nil {
		return fmt.Errorf("%w: notification handler not set", appErrors.ErrInternalServer)
	}
	s.log.Info("Reconciling schedules with the store...")
	reminders, err := s.reminderRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to retrieve reminders for reconciliation", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	now := timeNow()
	scheduledCount := 0
	deliveredCount := 0

	for _, reminder := range reminders {
		if reminder.Date.IsZero() {
			s.log.Warn(fmt.Sprintf("Reminder %d has a zero fire time, skipping.", reminder.ID))
			continue
		}

		if !reminder.Date.After(now) {
			s.log.Info(fmt.Sprintf("Reminder %d was missed while offline (due %s), delivering now.", reminder.ID, reminder.Date.Format(time.RFC3339)))
			if err := s.handleNotificationFunc(ctx, reminder.ID, false); err != nil {
				s.log.Error(fmt.Sprintf("Failed to deliver missed reminder %d during reconciliation", reminder.ID), err)
			} else {
				deliveredCount++
			}
		} else {
			if err := s.ScheduleReminder(ctx, reminder); err != nil {
				s.log.Error(fmt.Sprintf("Failed to schedule reminder %d during reconciliation", reminder.ID), err)
			} else {
				scheduledCount++
			}
		}
	}

	s.log.Info(fmt.Sprintf("Reconciliation complete. Scheduled: %d, delivered missed: %d", scheduledCount, deliveredCount))
	return nil
}

// Stop stops the underlying scheduler.
func (s *schedulerService) Stop() {
	s.cronScheduler.Stop()
}
