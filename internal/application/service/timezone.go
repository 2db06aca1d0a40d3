package service

import (
	"context"
	"tildy/internal/application/dto"
	"tildy/internal/domain/entity"
)

// TimezoneService defines the interface for TLDer timezone management.
type TimezoneService interface {
	// SetTimezone validates and stores a user's timezone, registering the
	// TLDer and the timezone record as needed.
	SetTimezone(ctx context.Context, req dto.SetTimezoneRequest) (*entity.Timezone, error)
	// GetTimezone returns the user's configured timezone, or
	// *errors.TlderNotFoundError when none is set.
	GetTimezone(ctx context.Context, userID string) (*entity.Timezone, error)
}
