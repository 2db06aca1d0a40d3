package sqlite

import (
	"context"
	"fmt"
	"tildy/internal/domain/entity"
	"tildy/internal/domain/repository"

	"gorm.io/gorm"
)

type timezoneRepository struct {
	db *gorm.DB
}

// NewTimezoneRepository creates a new instance of TimezoneRepository.
func NewTimezoneRepository(db *gorm.DB) repository.TimezoneRepository {
	return &timezoneRepository{db: db}
}

// FindTLDer retrieves the TLDer record for a chat-platform user ID.
func (r *timezoneRepository) FindTLDer(ctx context.Context, userID string) (*entity.TLDer, error) {
	var tlder entity.TLDer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tlder).Error; err != nil {
		return nil, fmt.Errorf("failed to find TLDer for user %s: %w", userID, err)
	}
	return &tlder, nil
}

// FindTimezone retrieves a timezone by its ID.
func (r *timezoneRepository) FindTimezone(ctx context.Context, id uint) (*entity.Timezone, error) {
	var timezone entity.Timezone
	if err := r.db.WithContext(ctx).First(&timezone, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find timezone %d: %w", id, err)
	}
	return &timezone, nil
}

// FindTimezoneByName retrieves a timezone by its TZ database name.
func (r *timezoneRepository) FindTimezoneByName(ctx context.Context, name string) (*entity.Timezone, error) {
	var timezone entity.Timezone
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&timezone).Error; err != nil {
		return nil, fmt.Errorf("failed to find timezone %q: %w", name, err)
	}
	return &timezone, nil
}

// AddTimezone registers a new timezone name.
func (r *timezoneRepository) AddTimezone(ctx context.Context, name string) (*entity.Timezone, error) {
	timezone := &entity.Timezone{Name: name}
	if err := r.db.WithContext(ctx).Create(timezone).Error; err != nil {
		return nil, fmt.Errorf("failed to add timezone %q: %w", name, err)
	}
	return timezone, nil
}

// AddTLDer registers a new TLDer.
func (r *timezoneRepository) AddTLDer(ctx context.Context, tlder *entity.TLDer) error {
	if err := r.db.WithContext(ctx).Create(tlder).Error; err != nil {
		return fmt.Errorf("failed to add TLDer for user %s: %w", tlder.UserID, err)
	}
	return nil
}

// UpdateTLDerTimezone points an existing TLDer at a different timezone.
func (r *timezoneRepository) UpdateTLDerTimezone(ctx context.Context, userID string, timezoneID uint) error {
	if err := r.db.WithContext(ctx).Model(&entity.TLDer{}).Where("user_id = ?", userID).Update("timezone_id", timezoneID).Error; err != nil {
		return fmt.Errorf("failed to update timezone for user %s: %w", userID, err)
	}
	return nil
}
