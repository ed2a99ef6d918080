package booking

import (
	"strings"
	"time"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/schedule"
)

// Request is the transient input to the engine.  It mirrors the inbound
// JSON shape: an ISO-8601 date string plus HH:MM slot boundaries.  It is
// never persisted directly; Validate converts it into a Validated booking.
type Request struct {
	SupplierID string
	Date       string
	StartTime  string
	EndTime    string
}

// Validated is a booking request that passed validation.  It carries the
// parsed date and slot together with the canonical slot descriptor ready
// for persistence.
type Validated struct {
	SupplierID     string
	Date           time.Time
	Slot           schedule.TimeSlot
	SlotDescriptor string
}

// dateLayouts are the accepted encodings of the selected date.  Clients
// send either a plain calendar date or a full RFC3339 instant (the web
// picker serializes Date objects with toISOString).
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Validate checks a booking request against the slot calendar and the
// given reference clock.  On success it returns the Validated booking; on
// failure it returns a *ValidationError describing the first problem
// found.  It has no side effects.
func Validate(req Request, now time.Time) (*Validated, error) {
	if strings.TrimSpace(req.SupplierID) == "" ||
		strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.StartTime) == "" ||
		strings.TrimSpace(req.EndTime) == "" {
		return nil, invalid(MissingField, "Missing required fields")
	}

	var date time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, req.Date); err == nil {
			date = t
			parsed = true
			break
		}
	}
	if !parsed {
		return nil, invalid(InvalidSlotShape, "selectedDate is not a valid date")
	}

	start, err := schedule.ParseClockTime(req.StartTime)
	if err != nil {
		return nil, invalid(InvalidSlotShape, "selectedTime must carry startTime and endTime as HH:MM")
	}
	end, err := schedule.ParseClockTime(req.EndTime)
	if err != nil {
		return nil, invalid(InvalidSlotShape, "selectedTime must carry startTime and endTime as HH:MM")
	}
	slot := schedule.TimeSlot{Start: start, End: end}

	// The slot must be one of the fixed daily grid entries, not just any
	// well-formed interval.
	known := false
	for _, s := range schedule.DaySlots() {
		if s == slot {
			known = true
			break
		}
	}
	if !known {
		return nil, invalid(SlotNotBookable, "selected slot is not a bookable slot")
	}
	if !schedule.IsBookable(slot, date, now) {
		return nil, invalid(SlotNotBookable, "selected slot has already passed")
	}

	return &Validated{
		SupplierID:     strings.TrimSpace(req.SupplierID),
		Date:           date,
		Slot:           slot,
		SlotDescriptor: schedule.Descriptor(date, slot),
	}, nil
}
