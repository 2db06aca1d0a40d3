package service

import (
	"errors"
	"testing"
	"time"

	appErrors "tildy/internal/pkg/errors"
)

func newTestResolver(t *testing.T, thresholdHours int) TimeResolver {
	t.Helper()
	return NewTimeResolver(thresholdHours, testLogger())
}

func TestResolveBareTimeRollsToNextDay(t *testing.T) {
	// Requester sits at UTC-5 just before their local 19:00; "9am" passed
	// almost ten hours ago, well over the 6 hour threshold, so it means
	// tomorrow morning.
	resolver := newTestResolver(t, 6)
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC)

	got, err := resolver.Resolve("9am", now, loc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 3, 2, 14, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveBareTimeJustPassedIsTimeTravel(t *testing.T) {
	// Local 18:00 passed 50 minutes ago, inside the threshold: the user
	// most plausibly meant a moment that already slipped by.
	resolver := newTestResolver(t, 6)
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC)

	_, err := resolver.Resolve("6pm", now, loc)
	var timeTravel *appErrors.TimeTravelError
	if !errors.As(err, &timeTravel) {
		t.Fatalf("expected TimeTravelError, got %v", err)
	}
}

func TestResolveNextDayRollKeepsWallClockAcrossDST(t *testing.T) {
	// 23:00 EST the night clocks spring forward: "9am" rolls to the next
	// morning and must land on 9am of the new offset, not an hour off.
	resolver := newTestResolver(t, 6)
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC) // 2024-03-09 23:00 EST

	got, err := resolver.Resolve("9am", now, loc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if local := got.In(loc); local.Hour() != 9 || local.Day() != 10 {
		t.Fatalf("expected 9am on the 10th local, got %s", local)
	}
}

func TestResolveBareTimeLaterToday(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := resolver.Resolve("15:04", now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveRelativeDuration(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := resolver.Resolve("in 2 hours", now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveNaturalLanguageTomorrow(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := resolver.Resolve("tomorrow at 9am", now, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveExplicitPastDateIsTimeTravel(t *testing.T) {
	// An explicit date in the past never rolls forward, whatever the
	// threshold says.
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := resolver.Resolve("2020-01-01 10:00", now, time.UTC)
	var timeTravel *appErrors.TimeTravelError
	if !errors.As(err, &timeTravel) {
		t.Fatalf("expected TimeTravelError, got %v", err)
	}
	attempted := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	if !timeTravel.Attempted.Equal(attempted) {
		t.Fatalf("expected attempted time %s, got %s", attempted, timeTravel.Attempted)
	}
}

func TestResolveEquivalentFormatsAgree(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	inputs := []string{
		"2024-12-25T15:04",
		"2024-12-25 15:04",
		"2024/12/25 15:04",
	}
	want := time.Date(2024, 12, 25, 15, 4, 0, 0, time.UTC)
	for _, raw := range inputs {
		got, err := resolver.Resolve(raw, now, time.UTC)
		if err != nil {
			t.Fatalf("resolve %q: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q resolved to %s, want %s", raw, got, want)
		}
	}
}

func TestResolveHonorsRequesterZone(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	east := time.FixedZone("UTC+3", 3*3600)

	got, err := resolver.Resolve("2024-12-25 15:04", now, east)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(2024, 12, 25, 12, 4, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveUnparseableText(t *testing.T) {
	resolver := newTestResolver(t, 6)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, raw := range []string{"qwertyuiop", ""} {
		_, err := resolver.Resolve(raw, now, time.UTC)
		var parsing *appErrors.ReminderParsingError
		if !errors.As(err, &parsing) {
			t.Fatalf("expected ReminderParsingError for %q, got %v", raw, err)
		}
	}
}
