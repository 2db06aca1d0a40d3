package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tildy/internal/application/dto"
	"tildy/internal/domain/entity"
	"tildy/internal/domain/notify"
	"tildy/internal/domain/repository"
	appErrors "tildy/internal/pkg/errors"
	"tildy/internal/pkg/logger"

	"gorm.io/gorm"
)

const reminderTimeFormat = "Mon, 02 Jan 2006 15:04:05 MST"

type reminderService struct {
	reminderRepo repository.ReminderRepository
	timezoneRepo repository.TimezoneRepository
	schedulerSvc SchedulerService
	resolver     TimeResolver
	notifier     notify.Notifier
	log          logger.Logger
}

// NewReminderService creates a new instance of ReminderService and wires
// itself in as the scheduler's delivery handler.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	timezoneRepo repository.TimezoneRepository,
	schedulerSvc SchedulerService,
	resolver TimeResolver,
	notifier notify.Notifier,
	log logger.Logger,
) ReminderService {
	rs := &reminderService{
		reminderRepo: reminderRepo,
		timezoneRepo: timezoneRepo,
		schedulerSvc: schedulerSvc,
		resolver:     resolver,
		notifier:     notifier,
		log:          log,
	}

	// Handler injection breaks the reminder<->scheduler service cycle.
	if schedulerImpl, ok := schedulerSvc.(*schedulerService); ok {
		schedulerImpl.SetNotificationHandler(rs.HandleReminderNotification)
		log.Info("Notification handler set for SchedulerService.")
	}

	return rs
}

// AddReminder validates, persists, and schedules a reminder.
func (s *reminderService) AddReminder(ctx context.Context, req dto.AddReminderRequest) (*entity.Reminder, error) {
	loc, err := s.ZoneFor(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	date, err := s.resolver.Resolve(req.RawTimestamp, now, loc)
	if err != nil {
		return nil, err
	}

	reminder := &entity.Reminder{
		Date:                  date,
		Notes:                 req.Notes,
		Remind15MinutesBefore: req.AdvanceWarning,
		ChannelID:             req.ChannelID,
	}
	if _, err := s.reminderRepo.Create(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to persist reminder for channel %s", req.ChannelID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	// Scheduling strictly follows persistence: a failed create leaves no
	// orphaned job.
	if err := s.schedulerSvc.ScheduleReminder(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to schedule reminder %d after persisting", reminder.ID), err)
		return nil, err
	}

	s.log.Info(fmt.Sprintf("Created reminder %d for channel %s at %s (advance warning: %t)",
		reminder.ID, reminder.ChannelID, reminder.Date.Format(time.RFC3339), reminder.Remind15MinutesBefore))
	return reminder, nil
}

// CancelReminder deletes the record and cancels pending jobs.
func (s *reminderService) CancelReminder(ctx context.Context, reminderID uint) error {
	if err := s.reminderRepo.Delete(ctx, reminderID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete reminder %d during cancellation", reminderID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if err := s.schedulerSvc.CancelReminderSchedule(ctx, reminderID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to cancel schedule for reminder %d", reminderID), err)
		return err
	}
	s.log.Info(fmt.Sprintf("Cancelled reminder %d", reminderID))
	return nil
}

// ExplainTimestamp dry-runs timestamp resolution in the requester's timezone.
func (s *reminderService) ExplainTimestamp(ctx context.Context, userID, raw string) (time.Time, error) {
	loc, err := s.ZoneFor(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return s.resolver.Resolve(raw, timeNow(), loc)
}

// SetConfirmationMessage writes the confirmation message ID back onto the record.
func (s *reminderService) SetConfirmationMessage(ctx context.Context, reminderID uint, msgID string) error {
	if err := s.reminderRepo.UpdateMessageID(ctx, reminderID, msgID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to write confirmation message ID for reminder %d", reminderID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// HandleReminderNotification delivers a reminder when its job fires.
// The record is re-fetched first: a missing record means the reminder was
// cancelled after the job entered its firing window, and delivery aborts
// silently. The main delivery sends and then deletes the record; a send
// failure is logged as a lost delivery and the record is still removed
// (at-most-once semantics). Advance warnings never delete the record.
func (s *reminderService) HandleReminderNotification(ctx context.Context, reminderID uint, advance bool) error {
	reminder, err := s.reminderRepo.FindByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(fmt.Sprintf("Reminder %d not found at delivery time (already cancelled), skipping.", reminderID))
			return nil
		}
		s.log.Error(fmt.Sprintf("Failed to load reminder %d for delivery", reminderID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	text := s.RenderDelivery(reminder, advance)
	if _, err := s.notifier.Send(ctx, reminder.ChannelID, text); err != nil {
		s.log.Error(fmt.Sprintf("Lost delivery for reminder %d to channel %s", reminderID, reminder.ChannelID), err)
	}

	if advance {
		return nil
	}

	if err := s.reminderRepo.Delete(ctx, reminderID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete reminder %d after delivery", reminderID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Delivered and removed reminder %d", reminderID))
	return nil
}

// ZoneFor resolves a user's configured timezone.
func (s *reminderService) ZoneFor(ctx context.Context, userID string) (*time.Location, error) {
	tlder, err := s.timezoneRepo.FindTLDer(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &appErrors.TlderNotFoundError{UserID: userID}
		}
		s.log.Error(fmt.Sprintf("Failed to look up TLDer for user %s", userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	timezone, err := s.timezoneRepo.FindTimezone(ctx, tlder.TimezoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: timezone %d for user %s", appErrors.ErrTimezoneNotFound, tlder.TimezoneID, userID)
		}
		s.log.Error(fmt.Sprintf("Failed to look up timezone %d for user %s", tlder.TimezoneID, userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	loc, err := time.LoadLocation(timezone.Name)
	if err != nil {
		s.log.Error(fmt.Sprintf("Stored timezone %q for user %s is not a valid TZ database name", timezone.Name, userID), err)
		return nil, fmt.Errorf("%w: invalid timezone %q", appErrors.ErrInternalServer, timezone.Name)
	}
	return loc, nil
}

// RenderConfirmation renders the user-facing confirmation text.
func (s *reminderService) RenderConfirmation(reminder *entity.Reminder) string {
	return fmt.Sprintf("Okay, I'll remind you at %s: %s", reminder.Date.Format(reminderTimeFormat), reminder.Notes)
}

// RenderDelivery renders the user-facing delivery text.
func (s *reminderService) RenderDelivery(reminder *entity.Reminder, advance bool) string {
	if advance {
		return fmt.Sprintf("In 15 minutes: %s", reminder.Notes)
	}
	return fmt.Sprintf("Reminder: %s", reminder.Notes)
}
