// Package schedule holds the booking time rules: the 10-minute grid, the
// MACRO_CASE room identifier format, and the interval-overlap predicate.
// Everything here is pure; validation happens before any store access.
package schedule

import (
	"fmt"
	"huddle/shared/failure"
	"huddle/shared/timezone"
	"regexp"
	"time"
)

const (
	// TimeLayout is the only accepted shape for booking start times.
	TimeLayout = "2006-01-02 15:04"
	// DateLayout is the only accepted shape for query dates.
	DateLayout = "2006-01-02"

	// SlotMinutes is the booking grid: start minutes and durations must be
	// multiples of this.
	SlotMinutes = 10

	// MsgInvalidRoomIdentifier rejects room identifiers that are not MACRO_CASE.
	MsgInvalidRoomIdentifier = "room_identifier must be in MACRO_CASE (uppercase letters, numbers, and underscores)"
)

var roomIdentifierPattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// ValidRoomIdentifier reports whether room is non-empty MACRO_CASE.
func ValidRoomIdentifier(room string) bool {
	return roomIdentifierPattern.MatchString(room)
}

// Normalize validates the booking request fields and resolves them into a
// concrete interval. Times are naive local: parsed in the application
// timezone with no offset handling.
func Normalize(roomIdentifier, bookingTime string, durationMinutes int) (Interval, error) {
	if !ValidRoomIdentifier(roomIdentifier) {
		return Interval{}, failure.BadRequestFromString(MsgInvalidRoomIdentifier)
	}

	start, err := timezone.Parse(TimeLayout, bookingTime)
	if err != nil {
		return Interval{}, failure.BadRequestFromString(fmt.Sprintf("booking_time must be in %q format", "YYYY-MM-DD HH:MM"))
	}

	if start.Minute()%SlotMinutes != 0 {
		return Interval{}, failure.BadRequestFromString("minutes must be in 10-minute increments (00, 10, 20, 30, 40, 50)")
	}

	if durationMinutes < SlotMinutes || durationMinutes%SlotMinutes != 0 {
		return Interval{}, failure.BadRequestFromString("duration_minutes must be a positive multiple of 10")
	}

	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A booking ending exactly when another starts does
// not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DayWindow resolves a YYYY-MM-DD date into the half-open window
// [date 00:00, next day 00:00) in the application timezone.
func DayWindow(date string) (time.Time, time.Time, error) {
	day, err := timezone.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("date must be in %q format", "YYYY-MM-DD"))
	}

	return day, day.AddDate(0, 0, 1), nil
}
