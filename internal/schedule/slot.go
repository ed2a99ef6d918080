// Package schedule implements the slot calendar: the fixed daily grid of
// one-hour delivery slots, the rolling window of bookable dates and the
// cutoff rule that rejects slots whose start hour has already passed.  All
// functions are pure; callers supply the reference clock.
package schedule

import (
	"fmt"
	"time"
)

const (
	// FirstSlotHour is the start hour of the earliest slot of the day.
	FirstSlotHour = 7
	// LastSlotHour is the start hour of the final slot (it ends at 16:00).
	LastSlotHour = 15
	// DefaultHorizonDays is how many calendar days, including the current
	// one, are offered for booking.
	DefaultHorizonDays = 7
)

// ClockTime is a wall-clock time of day with minute precision.  It carries
// no date and no zone; comparisons are against the same canonical clock the
// engine uses.
type ClockTime struct {
	Hour   int
	Minute int
}

// String renders the time as zero-padded "HH:MM".
func (t ClockTime) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// ParseClockTime parses a strict zero-padded "HH:MM" string.  Anything that
// is not exactly five characters with two digit pairs around a colon, or
// that encodes an impossible time, is rejected.
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return ClockTime{}, fmt.Errorf("schedule: malformed clock time %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("schedule: malformed clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("schedule: clock time %q out of range", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// TimeSlot is a bookable interval within a single day.  It is a value type:
// two slots are equal when their boundaries are equal.  The date the slot is
// booked for travels separately.
type TimeSlot struct {
	Start ClockTime
	End   ClockTime
}

// String renders the slot as "HH:MM-HH:MM".
func (s TimeSlot) String() string { return s.Start.String() + "-" + s.End.String() }

// DaySlots returns the fixed daily grid: nine one-hour slots from
// 07:00-08:00 through 15:00-16:00.  The grid is identical for every date.
func DaySlots() []TimeSlot {
	slots := make([]TimeSlot, 0, LastSlotHour-FirstSlotHour+1)
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		slots = append(slots, TimeSlot{
			Start: ClockTime{Hour: h},
			End:   ClockTime{Hour: h + 1},
		})
	}
	return slots
}

// AvailableDates returns the reference date plus the next horizonDays-1
// calendar days, in order, normalized to midnight in the reference
// location.  A horizon below one falls back to DefaultHorizonDays.
func AvailableDates(ref time.Time, horizonDays int) []time.Time {
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}
	y, m, d := ref.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	dates := make([]time.Time, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsBookable reports whether the slot may still be booked for the given
// date relative to now.  Past dates are never bookable.  On the current
// day a slot closes once the hour of day reaches its start hour; the
// cutoff is hour-granular, matching the picker shown to suppliers.
// Future dates are always bookable.
func IsBookable(slot TimeSlot, date, now time.Time) bool {
	if sameDay(date, now) {
		return now.Hour() < slot.Start.Hour
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return date.After(today)
}

// Descriptor encodes a (date, slot) pair in the canonical storage form
// "ddmmyyyy" + start "HHMM" + end "HHMM", each component zero-padded.
// Existing stored records use exactly this layout, so it must not change.
func Descriptor(date time.Time, slot TimeSlot) string {
	y, m, d := date.Date()
	return fmt.Sprintf("%02d%02d%04d%02d%02d%02d%02d",
		d, int(m), y,
		slot.Start.Hour, slot.Start.Minute,
		slot.End.Hour, slot.End.Minute,
	)
}
