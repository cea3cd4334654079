package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/law-makers/roomcheck/internal/driver/static"
	"github.com/law-makers/roomcheck/internal/rooms"
)

const bookingPage = `<!DOCTYPE html>
<html>
<body>
	<form class="uk-hidden">
		<button class="btn-submission red" value="Search">Search</button>
	</form>
	<form>
		<button class="btn-submission red" value="Search">Search</button>
	</form>

	<div class="room-booking-card">
		<h3 class="uk-card-title">2-05A Meeting Room</h3>
		<p>This room can accommodate up to ten people and has a display.</p>
		<a class="availability" href="#slots-0">View availability</a>
		<ul id="slots-0" hidden>
			<li class="time-slot">10:00 AM</li>
			<li class="time-slot">Booked until noon</li>
			<li class="time-slot">10:30 AM</li>
		</ul>
	</div>

	<div class="room-booking-card">
		<h3 class="uk-card-title">Unknown Room X</h3>
		<p>A quiet study space.</p>
		<a class="availability" href="#slots-1">View availability</a>
		<ul id="slots-1" hidden></ul>
	</div>
</body>
</html>`

var testDate = time.Date(2026, time.October, 23, 0, 0, 0, 0, time.UTC)

func TestBookingURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{DefaultBaseURL, DefaultBaseURL + "/?date=2026-10-23&location=1&groupsize=10"},
		{"http://127.0.0.1:8080/", "http://127.0.0.1:8080/?date=2026-10-23&location=1&groupsize=10"},
	}

	for _, tt := range tests {
		if got := BookingURL(tt.base, testDate, 10); got != tt.want {
			t.Errorf("BookingURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestListAvailableRooms_EndToEnd(t *testing.T) {
	ctx := context.Background()
	browser := static.Fixture(bookingPage)

	var observed []string
	client := New(browser, WithObserver(func(card int, ra RoomAvailability) {
		observed = append(observed, ra.Room.Title)
	}))
	defer client.Close(ctx)

	results, err := client.ListAvailableRooms(ctx, testDate, 6)
	if err != nil {
		t.Fatalf("ListAvailableRooms failed: %v", err)
	}

	if want := BookingURL(DefaultBaseURL, testDate, 6); browser.URL() != want {
		t.Errorf("Expected navigation to %s, got %s", want, browser.URL())
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 rooms, got %d", len(results))
	}

	first := results[0]
	if room, ok := first.Room.Choice.KnownRoom(); !ok || room != rooms.R205AMeetingRoom {
		t.Errorf("Expected R205AMeetingRoom, got %s", first.Room.Choice)
	}
	if capacity, ok := first.Room.Capacity(); !ok || capacity != 10 {
		t.Errorf("Expected capacity 10, got (%d, %v)", capacity, ok)
	}
	if first.Availability.String() != "[10:00 AM, 10:30 AM]" {
		t.Errorf("Expected [10:00 AM, 10:30 AM], got %s", first.Availability)
	}

	second := results[1]
	if !second.Room.Choice.IsUnknown() {
		t.Errorf("Expected UnknownRoom, got %s", second.Room.Choice)
	}
	if second.Room.InferredCapacity != nil {
		t.Errorf("Expected no capacity, got %d", *second.Room.InferredCapacity)
	}
	if second.Availability.String() != "Fully booked" {
		t.Errorf("Expected Fully booked, got %s", second.Availability)
	}

	if strings.Join(observed, "|") != "2-05A Meeting Room|Unknown Room X" {
		t.Errorf("Unexpected observer calls: %v", observed)
	}
}

func TestFindSearchButton(t *testing.T) {
	visible := `<button class="btn-submission red" value="Search">Search</button>`
	hidden := `<button class="btn-submission red" value="Search" style="display: none">Search</button>`
	other := `<button class="btn-submission blue" value="Search">Search</button>`

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"one visible", hidden + visible, nil},
		{"none", other, ErrNoButtonFound},
		{"only hidden", hidden + hidden, ErrNoButtonFound},
		{"two visible", visible + hidden + visible, ErrMoreThanOneButtonFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			browser := static.Fixture("<html><body>" + tt.body + "</body></html>")
			if err := browser.Navigate(ctx, "https://calgarylibrary.ca/"); err != nil {
				t.Fatalf("Navigate failed: %v", err)
			}

			button, err := New(browser).FindSearchButton(ctx)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected a button, got %v", err)
				}
				if visible, _ := button.Visible(ctx); !visible {
					t.Error("Expected the returned button to be visible")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if kind, _ := KindOf(err); kind != KindSearchButton {
				t.Errorf("Expected kind %s, got %s", KindSearchButton, kind)
			}
			if ambiguous := errors.Is(err, driver.ErrAmbiguous); ambiguous != (tt.wantErr == ErrMoreThanOneButtonFound) {
				t.Errorf("errors.Is(err, driver.ErrAmbiguous) = %v for %v", ambiguous, err)
			}
		})
	}
}

func TestListAvailableRooms_MissingMarkup(t *testing.T) {
	withoutToggle := strings.Replace(bookingPage, `<a class="availability" href="#slots-1">View availability</a>`, "", 1)
	withoutDescription := strings.Replace(bookingPage, "<p>A quiet study space.</p>", "", 1)
	withoutButton := strings.Replace(bookingPage, "<form>", "<form hidden>", 1)

	tests := []struct {
		name string
		page string
		kind Kind
		step string
	}{
		{"no toggle", withoutToggle, KindQuery, "availability toggle"},
		{"no description", withoutDescription, KindQuery, "room description"},
		{"no visible button", withoutButton, KindSearchButton, "search button"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(static.Fixture(tt.page))
			results, err := client.ListAvailableRooms(context.Background(), testDate, 4)
			if results != nil {
				t.Errorf("Expected no partial results, got %d", len(results))
			}

			var berr *Error
			if !errors.As(err, &berr) {
				t.Fatalf("Expected *booking.Error, got %v", err)
			}
			if berr.Kind != tt.kind || berr.Step != tt.step {
				t.Errorf("Expected %s/%s, got %s/%s", tt.kind, tt.step, berr.Kind, berr.Step)
			}
		})
	}
}

func TestListAvailableRooms_DriverFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		failOn driver.Op
		kind   Kind
	}{
		{"navigate", driver.OpNavigate, KindNavigate},
		{"click", driver.OpClick, KindClick},
		{"text", driver.OpText, KindText},
		{"query", driver.OpQuery, KindQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := &faultyBrowser{Browser: static.Fixture(bookingPage), failOn: tt.failOn, err: boom}
			_, err := New(browser).ListAvailableRooms(context.Background(), testDate, 4)

			if !errors.Is(err, &Error{Kind: tt.kind}) {
				t.Errorf("Expected kind %s, got %v", tt.kind, err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("Expected underlying error to be preserved, got %v", err)
			}
		})
	}
}

func TestOpen_SessionError(t *testing.T) {
	refused := errors.New("connection refused")
	_, err := Open(context.Background(), func(ctx context.Context) (driver.Browser, error) {
		return nil, refused
	})

	if kind, _ := KindOf(err); kind != KindSession {
		t.Errorf("Expected session error, got %v", err)
	}
	if !errors.Is(err, refused) {
		t.Errorf("Expected cause to be preserved, got %v", err)
	}
}

func TestClient_ClosedSession(t *testing.T) {
	ctx := context.Background()
	client := New(static.Fixture(bookingPage))
	if err := client.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := client.ListAvailableRooms(ctx, testDate, 4)
	if !errors.Is(err, driver.ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
