// Package rooms classifies scraped room cards and infers their capacity from
// free-text descriptions.
package rooms

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	accommodateRe = regexp.MustCompile(`accommodate up to \S+ people`)
	capacityOfRe  = regexp.MustCompile(`It has a capacity of \S+`)
)

var capacityWords = map[string]int{
	"four": 4,
	"six":  6,
	"ten":  10,
}

// Room is one room card as listed on the booking page.
type Room struct {
	Choice           RoomChoice `json:"choice"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	InferredCapacity *int       `json:"inferred_capacity"`
}

// New builds a Room, inferring its capacity from the description.
func New(choice RoomChoice, title, description string) Room {
	room := Room{
		Choice:      choice,
		Title:       title,
		Description: description,
	}
	if capacity, ok := InferCapacity(description); ok {
		room.InferredCapacity = &capacity
	}
	return room
}

// Capacity returns the inferred capacity, if any.
func (r Room) Capacity() (int, bool) {
	if r.InferredCapacity == nil {
		return 0, false
	}
	return *r.InferredCapacity, true
}

// InferCapacity looks for "accommodate up to <n> people" or
// "It has a capacity of <n>" and resolves <n>. Unrecognized tokens are logged
// and reported as absent.
func InferCapacity(description string) (int, bool) {
	token, ok := capacityToken(description)
	if !ok {
		return 0, false
	}

	if n, ok := capacityWords[token]; ok {
		return n, true
	}
	if isDigits(token) {
		// capacities are reported to clients as 0-255
		if n, err := strconv.ParseUint(token, 10, 8); err == nil {
			return int(n), true
		}
	}

	log.Debug().Str("token", token).Msg("Couldn't infer capacity from description")
	return 0, false
}

func capacityToken(description string) (string, bool) {
	if m := accommodateRe.FindString(description); m != "" {
		m = strings.TrimPrefix(m, "accommodate up to ")
		return strings.TrimSuffix(m, " people"), true
	}
	if m := capacityOfRe.FindString(description); m != "" {
		// sentence-final "of 8." is common
		token := strings.TrimPrefix(m, "It has a capacity of ")
		return strings.TrimRight(token, ".,;:)"), true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
