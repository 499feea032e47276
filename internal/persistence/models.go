package persistence

import "time"

// User represents an account that can sign in and book rooms.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a bookable meeting room catalog entry.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	Features  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking statuses. Confirmed bookings block availability; cancelled and
// finished ones do not.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingFinished  = "finished"
)

// Booking represents a confirmed reservation of a room for a single-date
// wall-clock window. Attendees carry the backend wire format: a
// comma-separated email list.
type Booking struct {
	ID              string
	RoomID          string
	OrganizerID     string
	Title           string
	Agenda          string
	Date            string
	StartTime       string
	EndTime         string
	Attendees       string
	Recurring       bool
	VideoConference bool
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActionItem is a single follow-up recorded in meeting minutes.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
}

// Minutes represents the minutes-of-meeting record attached to a booking.
type Minutes struct {
	ID           string
	BookingID    string
	Content      string
	ActionItems  []ActionItem
	RecordedBy   string
	ReviewStatus string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
