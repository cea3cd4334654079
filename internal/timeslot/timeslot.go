// Package timeslot encodes the booking site's half-hour time labels
// ("10:30 AM") as compact discriminants on a 48-slot day grid anchored at 5:00 AM.
package timeslot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// SlotsPerDay is the number of half-hour slots on the grid.
	SlotsPerDay = 48
	// OriginHour is the 24-hour clock hour mapped to discriminant 0.
	OriginHour = 5

	bookedPrefix = "Booked"
)

// TimeSlot is one 30-minute interval on the day grid. The zero value is 5:00 AM.
type TimeSlot uint8

// AddSignedHours shifts a 24-hour clock hour by delta, wrapping around midnight.
func AddSignedHours(hour uint8, delta int) uint8 {
	h := (int(hour) + delta) % 24
	if h < 0 {
		h += 24
	}
	return uint8(h)
}

// FromLabel parses a label such as "10:30 AM". Text after the meridiem
// ("10:00 AM - 10:30 AM") is ignored. Labels starting with "Booked" are
// rejected, as are minutes other than 00/30, hours outside 1-12 and unknown
// meridiems.
func FromLabel(label string) (TimeSlot, bool) {
	label = strings.TrimSpace(label)
	if strings.HasPrefix(label, bookedPrefix) {
		return 0, false
	}

	hourPart, rest, ok := strings.Cut(label, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.ParseUint(hourPart, 10, 8)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}

	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return 0, false
	}
	minute, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil || (minute != 0 && minute != 30) {
		return 0, false
	}

	// 12 AM is midnight, 12 PM is noon
	switch fields[1] {
	case "AM", "am":
		if hour == 12 {
			hour = 0
		}
	case "PM", "pm":
		if hour != 12 {
			hour += 12
		}
	default:
		return 0, false
	}

	shifted := AddSignedHours(uint8(hour), -OriginHour)
	return TimeSlot(shifted*2 + uint8(minute/30)), true
}

// All returns every slot on the grid in order.
func All() []TimeSlot {
	slots := make([]TimeSlot, SlotsPerDay)
	for i := range slots {
		slots[i] = TimeSlot(i)
	}
	return slots
}

// Discriminant returns the slot index in [0, 48).
func (s TimeSlot) Discriminant() uint8 {
	return uint8(s)
}

// Valid reports whether s lies on the grid.
func (s TimeSlot) Valid() bool {
	return s < SlotsPerDay
}

// Label renders the slot back into the site's 12-hour form.
func (s TimeSlot) Label() string {
	hour := AddSignedHours(uint8(s)/2, OriginHour)
	minute := "00"
	if s%2 == 1 {
		minute = "30"
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%s %s", hour, minute, meridiem)
}

// String implements fmt.Stringer.
func (s TimeSlot) String() string {
	return s.Label()
}

// MarshalJSON encodes the slot as its label. Slots off the grid are an error.
func (s TimeSlot) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("time slot %d outside grid", uint8(s))
	}
	return json.Marshal(s.Label())
}

// UnmarshalJSON accepts a label string.
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, ok := FromLabel(label)
	if !ok {
		return fmt.Errorf("invalid time slot label %q", label)
	}
	*s = parsed
	return nil
}
