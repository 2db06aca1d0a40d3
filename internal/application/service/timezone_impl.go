package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tildy/internal/application/dto"
	"tildy/internal/domain/entity"
	"tildy/internal/domain/repository"
	appErrors "tildy/internal/pkg/errors"
	"tildy/internal/pkg/logger"

	"gorm.io/gorm"
)

type timezoneService struct {
	timezoneRepo repository.TimezoneRepository
	log          logger.Logger
}

// NewTimezoneService creates a new instance of TimezoneService.
func NewTimezoneService(timezoneRepo repository.TimezoneRepository, log logger.Logger) TimezoneService {
	return &timezoneService{timezoneRepo: timezoneRepo, log: log}
}

// SetTimezone validates and stores a user's timezone.
func (s *timezoneService) SetTimezone(ctx context.Context, req dto.SetTimezoneRequest) (*entity.Timezone, error) {
	if _, err := time.LoadLocation(req.ZoneName); err != nil {
		return nil, fmt.Errorf("%w: %q is not a known TZ database name", appErrors.ErrTimezoneNotFound, req.ZoneName)
	}

	timezone, err := s.timezoneRepo.FindTimezoneByName(ctx, req.ZoneName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error(fmt.Sprintf("Failed to look up timezone %q", req.ZoneName), err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		s.log.Info(fmt.Sprintf("Timezone %q not registered yet, adding.", req.ZoneName))
		timezone, err = s.timezoneRepo.AddTimezone(ctx, req.ZoneName)
		if err != nil {
			s.log.Error(fmt.Sprintf("Failed to add timezone %q", req.ZoneName), err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
	}

	_, err = s.timezoneRepo.FindTLDer(ctx, req.UserID)
	switch {
	case err == nil:
		if err := s.timezoneRepo.UpdateTLDerTimezone(ctx, req.UserID, timezone.ID); err != nil {
			s.log.Error(fmt.Sprintf("Failed to update timezone for user %s", req.UserID), err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		tlder := &entity.TLDer{UserID: req.UserID, Name: req.Name, TimezoneID: timezone.ID}
		if err := s.timezoneRepo.AddTLDer(ctx, tlder); err != nil {
			s.log.Error(fmt.Sprintf("Failed to register TLDer for user %s", req.UserID), err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
	default:
		s.log.Error(fmt.Sprintf("Failed to look up TLDer for user %s", req.UserID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Set timezone for user %s to %s", req.UserID, timezone.Name))
	return timezone, nil
}

// GetTimezone returns the user's configured timezone.
func (s *timezoneService) GetTimezone(ctx context.Context, userID string) (*entity.Timezone, error) {
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
		s.log.Error(fmt.Sprintf("Failed to look up timezone %d for user %s", tlder.TimezoneID, userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return timezone, nil
}
