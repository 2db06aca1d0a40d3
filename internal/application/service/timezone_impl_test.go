package service

import (
	"context"
	"errors"
	"testing"

	"tildy/internal/application/dto"
	appErrors "tildy/internal/pkg/errors"
)

func TestSetTimezoneRejectsUnknownZone(t *testing.T) {
	svc := NewTimezoneService(newFakeTimezoneRepo(), testLogger())

	_, err := svc.SetTimezone(context.Background(), dto.SetTimezoneRequest{
		UserID:   "u1",
		Name:     "Sam",
		ZoneName: "Moon/Crater",
	})
	if !errors.Is(err, appErrors.ErrTimezoneNotFound) {
		t.Fatalf("expected ErrTimezoneNotFound, got %v", err)
	}
}

func TestSetTimezoneRegistersNewUser(t *testing.T) {
	repo := newFakeTimezoneRepo()
	svc := NewTimezoneService(repo, testLogger())

	timezone, err := svc.SetTimezone(context.Background(), dto.SetTimezoneRequest{
		UserID:   "u1",
		Name:     "Sam",
		ZoneName: "Europe/London",
	})
	if err != nil {
		t.Fatalf("set timezone: %v", err)
	}
	if timezone.Name != "Europe/London" {
		t.Fatalf("unexpected timezone: %q", timezone.Name)
	}

	got, err := svc.GetTimezone(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get timezone: %v", err)
	}
	if got.Name != "Europe/London" {
		t.Fatalf("expected Europe/London, got %q", got.Name)
	}
}

func TestSetTimezoneUpdatesExistingUser(t *testing.T) {
	repo := newFakeTimezoneRepo().withTLDer("u1", "UTC")
	svc := NewTimezoneService(repo, testLogger())

	if _, err := svc.SetTimezone(context.Background(), dto.SetTimezoneRequest{
		UserID:   "u1",
		Name:     "Sam",
		ZoneName: "Asia/Tokyo",
	}); err != nil {
		t.Fatalf("set timezone: %v", err)
	}

	got, err := svc.GetTimezone(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get timezone: %v", err)
	}
	if got.Name != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %q", got.Name)
	}
}

func TestSetTimezoneReusesRegisteredZone(t *testing.T) {
	repo := newFakeTimezoneRepo()
	svc := NewTimezoneService(repo, testLogger())

	first, err := svc.SetTimezone(context.Background(), dto.SetTimezoneRequest{
		UserID: "u1", Name: "Sam", ZoneName: "Europe/London",
	})
	if err != nil {
		t.Fatalf("first set: %v", err)
	}
	second, err := svc.SetTimezone(context.Background(), dto.SetTimezoneRequest{
		UserID: "u2", Name: "Alex", ZoneName: "Europe/London",
	})
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected zone row reuse, got IDs %d and %d", first.ID, second.ID)
	}
}

func TestGetTimezoneUnknownUser(t *testing.T) {
	svc := NewTimezoneService(newFakeTimezoneRepo(), testLogger())

	_, err := svc.GetTimezone(context.Background(), "stranger")
	var notFound *appErrors.TlderNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected TlderNotFoundError, got %v", err)
	}
}
