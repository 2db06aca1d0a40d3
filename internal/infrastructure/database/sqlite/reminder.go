package sqlite

import (
	"context"
	"fmt"
	"tildy/internal/domain/entity"
	"tildy/internal/domain/repository"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find reminder %d: %w", id, err)
	}
	return &reminder, nil
}

// FindAll retrieves all reminders (used for rescheduling on startup).
func (r *reminderRepository) FindAll(ctx context.Context) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	if err := r.db.WithContext(ctx).Order("date asc").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to find all reminders: %w", err)
	}
	return reminders, nil
}

// Create creates a new reminder. Returns the ID of the created reminder.
func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) (uint, error) {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return 0, fmt.Errorf("failed to create reminder for channel %s: %w", reminder.ChannelID, err)
	}
	return reminder.ID, nil
}

// Update updates an existing reminder.
func (r *reminderRepository) Update(ctx context.Context, reminder *entity.Reminder) error {
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("failed to update reminder %d: %w", reminder.ID, err)
	}
	return nil
}

// UpdateMessageID writes the confirmation message ID back onto a reminder.
func (r *reminderRepository) UpdateMessageID(ctx context.Context, id uint, msgID string) error {
	if err := r.db.WithContext(ctx).Model(&entity.Reminder{}).Where("id = ?", id).Update("msg_id", msgID).Error; err != nil {
		return fmt.Errorf("failed to update message ID for reminder %d: %w", id, err)
	}
	return nil
}

// Delete deletes a reminder by its ID. Deleting a missing reminder is a no-op.
func (r *reminderRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entity.Reminder{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete reminder %d: %w", id, err)
	}
	return nil
}
