package repository

import (
	"context"
	"tildy/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Reminder, error)
	// FindAll retrieves all reminders (used for rescheduling on startup).
	FindAll(ctx context.Context) ([]*entity.Reminder, error)
	// Create creates a new reminder. Returns the ID of the created reminder.
	Create(ctx context.Context, reminder *entity.Reminder) (uint, error)
	// Update updates an existing reminder.
	Update(ctx context.Context, reminder *entity.Reminder) error
	// UpdateMessageID writes the confirmation message ID back onto a reminder.
	UpdateMessageID(ctx context.Context, id uint, msgID string) error
	// Delete deletes a reminder by its ID. Deleting a missing reminder is a no-op.
	Delete(ctx context.Context, id uint) error
}
