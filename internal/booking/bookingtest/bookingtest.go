// Package bookingtest serves a canned booking page for tests.
package bookingtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Page lists two rooms: a known room with two open slots and capacity ten,
// and an unknown, fully booked room.
const Page = `<!DOCTYPE html>
<html>
<body>
	<form class="uk-hidden">
		<button class="btn-submission red" value="Search">Search</button>
	</form>
	<form>
		<button class="btn-submission red" value="Search">Search</button>
	</form>

	<div class="room-booking-card">
		<h3 class="uk-card-title">3-10A Meeting Room</h3>
		<p>It has a capacity of 6.</p>
		<a class="availability" href="#slots-0">View availability</a>
		<ul id="slots-0" hidden>
			<li class="time-slot">1:00 PM</li>
			<li class="time-slot">Booked</li>
			<li class="time-slot">1:30 PM</li>
		</ul>
	</div>

	<div class="room-booking-card">
		<h3 class="uk-card-title">Basement Storage</h3>
		<p>Not bookable.</p>
		<a class="availability" href="#slots-1">View availability</a>
		<ul id="slots-1" hidden></ul>
	</div>
</body>
</html>`

// Server is a booking site double that records the query strings it served.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

// NewServer starts a Server serving page on every path and closes it when
// the test ends.
func NewServer(t testing.TB, page string) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.queries = append(s.queries, r.URL.RawQuery)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(s.Close)
	return s
}

// Queries returns the raw query strings of every request served so far.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}
