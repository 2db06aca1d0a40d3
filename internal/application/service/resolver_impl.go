package service

import (
	"fmt"
	"strings"
	"time"

	appErrors "tildy/internal/pkg/errors"
	"tildy/internal/pkg/logger"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Parsing runs in three stages, first success wins: explicit layouts in
// the user's zone, permissive absolute formats (dateparse), then natural
// language (when). Bare times of day go through the next-day threshold
// disambiguation before the strictly-future check.
type timeResolver struct {
	nextDayThreshold time.Duration
	nl               *when.Parser
	log              logger.Logger
}

// NewTimeResolver creates a TimeResolver. thresholdHours is the
// time_is_next_day_threshold_hours configuration option.
func NewTimeResolver(thresholdHours int, log logger.Logger) TimeResolver {
	nl := when.New(nil)
	nl.Add(en.All...)
	nl.Add(common.All...)
	return &timeResolver{
		nextDayThreshold: time.Duration(thresholdHours) * time.Hour,
		nl:               nl,
		log:              log,
	}
}

// Layouts with an explicit date: a past result is always time travel.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"02 Jan 2006 15:04",
}

// Bare time-of-day layouts: the day is chosen by disambiguate.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05pm",
	"3:04pm",
	"3pm",
}

func (r *timeResolver) Resolve(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &appErrors.ReminderParsingError{Raw: raw}
	}
	localNow := now.In(loc)

	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return r.guardFuture(t, now, raw)
		}
	}

	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, strings.ToLower(trimmed), loc); err == nil {
			candidate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, loc)
			return r.disambiguate(candidate, now, raw)
		}
	}

	if t, err := dateparse.ParseIn(trimmed, loc); err == nil {
		return r.guardFuture(t, now, raw)
	}

	if result, err := r.nl.Parse(trimmed, localNow); err == nil && result != nil {
		t := result.Time
		// Natural-language bare times resolve onto the current day; give
		// results landing in the recent past the same next-day treatment.
		if !t.After(now) && now.Sub(t) < 24*time.Hour {
			return r.disambiguate(t, now, raw)
		}
		return r.guardFuture(t, now, raw)
	}

	r.log.Error(fmt.Sprintf("No parser understood timestamp %q (zone %s, now %s)", raw, loc, now.Format(time.RFC3339)), nil)
	return time.Time{}, &appErrors.ReminderParsingError{Raw: raw}
}

// disambiguate applies the next-day threshold to a time of day that landed
// on the current day. A time already passed by more than the threshold
// plainly means its next occurrence and rolls forward one day; one passed
// by less "just happened" and is refused as time travel. This changes
// which day bare times like "9am" select when parsed near midnight.
func (r *timeResolver) disambiguate(candidate, now time.Time, raw string) (time.Time, error) {
	if candidate.After(now) {
		return candidate, nil
	}
	if now.Sub(candidate) > r.nextDayThreshold {
		// Rebuild on the next day's wall clock; adding 24h would carry
		// the old UTC offset across a DST transition.
		return time.Date(candidate.Year(), candidate.Month(), candidate.Day()+1,
			candidate.Hour(), candidate.Minute(), candidate.Second(), 0, candidate.Location()), nil
	}
	return time.Time{}, r.timeTravel(candidate, now, raw)
}

func (r *timeResolver) guardFuture(t, now time.Time, raw string) (time.Time, error) {
	if t.After(now) {
		return t, nil
	}
	return time.Time{}, r.timeTravel(t, now, raw)
}

func (r *timeResolver) timeTravel(t, now time.Time, raw string) error {
	r.log.Error(fmt.Sprintf("Refusing time travel: %q resolved to %s (now %s)", raw, t.Format(time.RFC3339), now.Format(time.RFC3339)), nil)
	return &appErrors.TimeTravelError{
		Message:   "Sorry, I can't set reminders in the past — even Tildy can't time travel.",
		Attempted: t,
	}
}
