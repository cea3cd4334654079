package timeslot

import (
	"encoding/json"
	"strings"
)

// Availability is the list of open slots for one room, in the order the page
// listed them. An empty Availability means the room is fully booked.
type Availability []TimeSlot

// NewAvailability keeps the labels that parse as open slots and silently drops
// the rest ("Booked ..." entries and unexpected markup).
func NewAvailability(labels []string) Availability {
	slots := make(Availability, 0, len(labels))
	for _, label := range labels {
		if slot, ok := FromLabel(label); ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

// FullyBooked reports whether no slot is open.
func (a Availability) FullyBooked() bool {
	return len(a) == 0
}

// Contains reports whether slot is open.
func (a Availability) Contains(slot TimeSlot) bool {
	for _, s := range a {
		if s == slot {
			return true
		}
	}
	return false
}

// Labels returns the label of every open slot.
func (a Availability) Labels() []string {
	labels := make([]string, len(a))
	for i, s := range a {
		labels[i] = s.Label()
	}
	return labels
}

// String renders "Fully booked" or "[10:00 AM, 10:30 AM]".
func (a Availability) String() string {
	if a.FullyBooked() {
		return "Fully booked"
	}
	return "[" + strings.Join(a.Labels(), ", ") + "]"
}

// MarshalJSON encodes the availability as a list of labels. A fully booked
// room encodes as an empty list, never null.
func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Labels())
}
