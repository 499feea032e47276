package availability

// Room is the inventory snapshot the filter judges. It mirrors the catalog
// entry the caller fetched; the filter never mutates it.
type Room struct {
	ID       string
	Name     string
	Capacity int
	Features []string
}

// Booking is an existing reservation row. Rows are read-only here; the
// backend owns their lifecycle.
type Booking struct {
	RoomID    string
	Date      string
	StartTime string
	EndTime   string
}

// FilterRooms returns the rooms with no booking overlapping the requested
// window on the requested date, preserving the input room order.
//
// Booking rows are judged independently, so inventory that already violates
// the pairwise non-overlap invariant still produces a deterministic answer.
// Rows whose times cannot be parsed are skipped rather than treated as
// conflicts. An empty result is a valid outcome, not an error.
func FilterRooms(rooms []Room, bookings []Booking, date string, startMinute, durationMinutes int) ([]Room, error) {
	requested, err := NewWindow(startMinute, durationMinutes)
	if err != nil {
		return nil, err
	}

	busy := make(map[string]bool, len(rooms))
	for _, booking := range bookings {
		if booking.Date != date {
			continue
		}
		window, err := ParseWindow(booking.StartTime, booking.EndTime)
		if err != nil {
			continue
		}
		if requested.Overlaps(window) {
			busy[booking.RoomID] = true
		}
	}

	available := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if busy[room.ID] {
			continue
		}
		available = append(available, room)
	}

	return available, nil
}
