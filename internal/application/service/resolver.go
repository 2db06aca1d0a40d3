package service

import "time"

// TimeResolver parses free-form timestamp text into an absolute instant.
type TimeResolver interface {
	// Resolve interprets raw in loc relative to now. The result is always
	// strictly after now; otherwise a *errors.TimeTravelError is returned.
	// Text no parser understands yields a *errors.ReminderParsingError.
	Resolve(raw string, now time.Time, loc *time.Location) (time.Time, error)
}
