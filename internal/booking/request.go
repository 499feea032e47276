// Package booking validates and normalizes user-authored booking requests
// before they are handed to the reservation backend.
package booking

// Request is an in-progress, unsubmitted reservation. It is mutated field by
// field while the user fills the form and discarded once the normalized
// payload has been submitted.
type Request struct {
	Title           string
	Agenda          string
	Date            string
	StartTime       string
	DurationLabel   string
	Attendees       []string
	RoomName        string
	Recurring       bool
	VideoConference bool
}

// AddAttendee appends an attendee email, preserving insertion order. Adding
// an address already present is a silent no-op; the report value only tells
// the caller whether the list changed.
func (r *Request) AddAttendee(email string) bool {
	for _, existing := range r.Attendees {
		if existing == email {
			return false
		}
	}
	r.Attendees = append(r.Attendees, email)
	return true
}

// RemoveAttendee drops an attendee by address if present.
func (r *Request) RemoveAttendee(email string) {
	for i, existing := range r.Attendees {
		if existing == email {
			r.Attendees = append(r.Attendees[:i], r.Attendees[i+1:]...)
			return
		}
	}
}

// durationTable maps the form's duration labels to their length in minutes.
// The canonical HH:MM wire value is derived from the same table so the two
// can never drift apart.
var durationTable = map[string]int{
	"30 minutes": 30,
	"1 hour":     60,
	"1.5 hours":  90,
	"2 hours":    120,
	"3 hours":    180,
}

// DurationLabels lists the accepted labels in the order the form offers them.
var DurationLabels = []string{"30 minutes", "1 hour", "1.5 hours", "2 hours", "3 hours"}

// DurationMinutes resolves a duration label to minutes. Unknown labels are
// reported rather than defaulted; the reference UI silently fell back to one
// hour, which masked bugs.
func DurationMinutes(label string) (int, bool) {
	minutes, ok := durationTable[label]
	return minutes, ok
}
