package rooms

import (
	"encoding/json"
	"fmt"
)

const unknownRoomID = "UnknownRoom"

// RoomChoice is either a specific known room or the unknown-room fallback.
// The zero value is the unknown room.
type RoomChoice struct {
	room KnownRoom
}

// Unknown is the fallback choice for titles that match no known room.
var Unknown = RoomChoice{}

// Known wraps a known room.
func Known(room KnownRoom) RoomChoice {
	return RoomChoice{room: room}
}

// Classify maps a scraped card title to a room choice by exact match.
// Titles that match nothing classify as Unknown.
func Classify(title string) RoomChoice {
	if room, ok := roomsByTitle[title]; ok {
		return Known(room)
	}
	return Unknown
}

// KnownRoom returns the wrapped room and true, or false for the unknown room.
func (c RoomChoice) KnownRoom() (KnownRoom, bool) {
	return c.room, c.room != 0
}

// IsUnknown reports whether c is the unknown-room fallback.
func (c RoomChoice) IsUnknown() bool {
	return c.room == 0
}

func (c RoomChoice) String() string {
	if c.IsUnknown() {
		return unknownRoomID
	}
	return c.room.String()
}

// MarshalJSON encodes the choice as the room identifier or "UnknownRoom".
func (c RoomChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (c *RoomChoice) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if id == unknownRoomID {
		*c = Unknown
		return nil
	}
	room, ok := roomsByID[id]
	if !ok {
		return fmt.Errorf("unknown room identifier %q", id)
	}
	*c = Known(room)
	return nil
}
