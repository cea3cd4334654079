// Package booking extracts room availability from the library's booking page
// through any driver.Browser.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/law-makers/roomcheck/internal/rooms"
	"github.com/law-makers/roomcheck/internal/timeslot"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the booking page of the Calgary Public Library.
const DefaultBaseURL = "https://calgarylibrary.ca/events-and-programs/book-a-space/book-a-room"

// LocationID selects the Central Library.
const LocationID = 1

// DateLayout is the ISO date format the booking page expects.
const DateLayout = "2006-01-02"

// Selectors of the booking page markup.
const (
	SearchButtonSelector = "button.btn-submission.red[value='Search']"
	RoomCardSelector     = ".room-booking-card"
	TitleSelector        = ".uk-card-title"
	DescriptionSelector  = "p"
	AvailabilitySelector = "a.availability"
	TimeSlotSelector     = "li.time-slot"
)

// RoomAvailability pairs a room with its open slots.
type RoomAvailability struct {
	Room         rooms.Room            `json:"room"`
	Availability timeslot.Availability `json:"availability"`
}

// Client drives one browser session against the booking page. It owns the
// session: it must not be shared between goroutines and must be closed.
type Client struct {
	driver.Browser
	baseURL  string
	observer func(card int, ra RoomAvailability)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the booking page address.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithObserver registers fn to be called after each room card is extracted.
func WithObserver(fn func(card int, ra RoomAvailability)) Option {
	return func(c *Client) {
		c.observer = fn
	}
}

// New wraps an open browser session.
func New(b driver.Browser, opts ...Option) *Client {
	c := &Client{Browser: b, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts a new session with open and wraps it. Failures are KindSession.
func Open(ctx context.Context, open driver.Opener, opts ...Option) (*Client, error) {
	b, err := open(ctx)
	if err != nil {
		return nil, newError(KindSession, "open browser session", err)
	}
	return New(b, opts...), nil
}

// BookingURL builds the search URL for date and groupSize.
func BookingURL(baseURL string, date time.Time, groupSize uint8) string {
	return fmt.Sprintf("%s/?date=%s&location=%d&groupsize=%d",
		strings.TrimRight(baseURL, "/"), date.Format(DateLayout), LocationID, groupSize)
}

// FindSearchButton returns the single visible search button. The page renders
// several matching buttons; visibility tells the real one apart.
func (c *Client) FindSearchButton(ctx context.Context) (driver.Element, error) {
	buttons, err := c.QueryAll(ctx, SearchButtonSelector)
	if err != nil {
		return nil, newError(KindQuery, "search buttons", err)
	}

	var found driver.Element
	for _, b := range buttons {
		visible, err := b.Visible(ctx)
		if err != nil {
			return nil, newError(KindQuery, "search button visibility", err)
		}
		if !visible {
			continue
		}
		if found != nil {
			return nil, newError(KindSearchButton, "search button",
				fmt.Errorf("%w: %w", ErrMoreThanOneButtonFound, driver.ErrAmbiguous))
		}
		found = b
	}

	if found == nil {
		return nil, newError(KindSearchButton, "search button", ErrNoButtonFound)
	}
	return found, nil
}

// ListAvailableRooms loads the booking page for date and groupSize and
// returns every room card with its open slots, in page order. Any failure
// aborts the whole extraction; partial results are never returned.
func (c *Client) ListAvailableRooms(ctx context.Context, date time.Time, groupSize uint8) ([]RoomAvailability, error) {
	start := time.Now()
	url := BookingURL(c.baseURL, date, groupSize)

	log.Debug().
		Str("url", url).
		Str("date", date.Format(DateLayout)).
		Uint8("group_size", groupSize).
		Msg("Listing available rooms")

	if err := c.Navigate(ctx, url); err != nil {
		return nil, newError(KindNavigate, "booking page", err)
	}

	if _, err := c.FindSearchButton(ctx); err != nil {
		return nil, err
	}

	cards, err := c.QueryAll(ctx, RoomCardSelector)
	if err != nil {
		return nil, newError(KindQuery, "room cards", err)
	}

	results := make([]RoomAvailability, 0, len(cards))
	for i, card := range cards {
		ra, err := extractCard(ctx, i, card)
		if err != nil {
			return nil, err
		}
		results = append(results, ra)

		log.Debug().
			Int("card", i).
			Str("title", ra.Room.Title).
			Str("choice", ra.Room.Choice.String()).
			Str("availability", ra.Availability.String()).
			Msg("Room extracted")

		if c.observer != nil {
			c.observer(i, ra)
		}
	}

	log.Info().
		Str("date", date.Format(DateLayout)).
		Int("rooms", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Room availability extracted")
	return results, nil
}

func extractCard(ctx context.Context, i int, card driver.Element) (RoomAvailability, error) {
	title, err := textOf(ctx, i, card, TitleSelector, "room title")
	if err != nil {
		return RoomAvailability{}, err
	}
	description, err := textOf(ctx, i, card, DescriptionSelector, "room description")
	if err != nil {
		return RoomAvailability{}, err
	}
	room := rooms.New(rooms.Classify(title), title, description)

	toggle, err := card.QueryOne(ctx, AvailabilitySelector)
	if err != nil {
		return RoomAvailability{}, cardError(KindQuery, "availability toggle", i, err)
	}
	if err := toggle.Click(ctx); err != nil {
		return RoomAvailability{}, cardError(KindClick, "availability toggle", i, err)
	}

	slots, err := card.QueryAll(ctx, TimeSlotSelector)
	if err != nil {
		return RoomAvailability{}, cardError(KindQuery, "time slots", i, err)
	}
	labels := make([]string, 0, len(slots))
	for _, slot := range slots {
		label, err := slot.Text(ctx)
		if err != nil {
			return RoomAvailability{}, cardError(KindText, "time slot", i, err)
		}
		labels = append(labels, label)
	}

	return RoomAvailability{
		Room:         room,
		Availability: timeslot.NewAvailability(labels),
	}, nil
}

func textOf(ctx context.Context, i int, card driver.Element, selector, step string) (string, error) {
	el, err := card.QueryOne(ctx, selector)
	if err != nil {
		return "", cardError(KindQuery, step, i, err)
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", cardError(KindText, step, i, err)
	}
	return text, nil
}
