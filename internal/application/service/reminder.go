package service

import (
	"context"
	"time"

	"tildy/internal/application/dto"
	"tildy/internal/domain/entity"
)

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// AddReminder validates, persists, and schedules a reminder. It fails
	// with *errors.TimeTravelError or *errors.ReminderParsingError on bad
	// timestamp text, and with *errors.TlderNotFoundError when the
	// requester has no configured timezone. Persistence failures leave no
	// scheduled job behind.
	AddReminder(ctx context.Context, req dto.AddReminderRequest) (*entity.Reminder, error)
	// CancelReminder deletes the record and cancels pending jobs.
	// Idempotent: cancelling an already-delivered or already-cancelled
	// reminder is a no-op.
	CancelReminder(ctx context.Context, reminderID uint) error
	// ExplainTimestamp dry-runs timestamp resolution in the requester's
	// timezone without creating anything.
	ExplainTimestamp(ctx context.Context, userID, raw string) (time.Time, error)
	// SetConfirmationMessage writes the confirmation message ID back onto
	// the persisted record.
	SetConfirmationMessage(ctx context.Context, reminderID uint, msgID string) error
	// HandleReminderNotification is the delivery callback invoked by the
	// scheduler: re-fetch, render, send, and (for the main delivery)
	// delete the record.
	HandleReminderNotification(ctx context.Context, reminderID uint, advance bool) error
	// ZoneFor resolves a user's configured timezone.
	ZoneFor(ctx context.Context, userID string) (*time.Location, error)
	// RenderConfirmation renders the user-facing confirmation text.
	RenderConfirmation(reminder *entity.Reminder) string
	// RenderDelivery renders the user-facing delivery text.
	RenderDelivery(reminder *entity.Reminder, advance bool) string
}
