package repository

import (
	"context"
	"tildy/internal/domain/entity"
)

// TimezoneRepository defines the interface for TLDer and timezone data operations.
type TimezoneRepository interface {
	// FindTLDer retrieves the TLDer record for a chat-platform user ID.
	FindTLDer(ctx context.Context, userID string) (*entity.TLDer, error)
	// FindTimezone retrieves a timezone by its ID.
	FindTimezone(ctx context.Context, id uint) (*entity.Timezone, error)
	// FindTimezoneByName retrieves a timezone by its TZ database name.
	FindTimezoneByName(ctx context.Context, name string) (*entity.Timezone, error)
	// AddTimezone registers a new timezone name.
	AddTimezone(ctx context.Context, name string) (*entity.Timezone, error)
	// AddTLDer registers a new TLDer.
	AddTLDer(ctx context.Context, tlder *entity.TLDer) error
	// UpdateTLDerTimezone points an existing TLDer at a different timezone.
	UpdateTLDerTimezone(ctx context.Context, userID string, timezoneID uint) error
}
