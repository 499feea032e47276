package application

import (
	"time"

	"github.com/example/meetingroom-booking/internal/booking"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Location string
	Capacity int
	Features []string
}

// Room represents a catalog entry for a bookable meeting room.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	Features  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// AvailabilityQuery identifies a requested meeting window.
type AvailabilityQuery struct {
	Date            string
	StartTime       string
	DurationMinutes int
}

// Booking represents a persisted reservation.
type Booking struct {
	ID              string
	RoomID          string
	RoomName        string
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

// CreateBookingParams wraps a user-authored booking request for submission.
type CreateBookingParams struct {
	Principal Principal
	Request   booking.Request
}

// ListBookingsParams narrows booking listings. OrganizerOnly restricts the
// result to the principal's own bookings.
type ListBookingsParams struct {
	Principal     Principal
	Date          string
	RoomID        string
	OrganizerOnly bool
}

// ActionItem is a follow-up recorded in meeting minutes.
type ActionItem struct {
	Task     string
	Assignee string
	Status   string
}

// MinutesInput captures caller provided minutes fields.
type MinutesInput struct {
	Content     string
	ActionItems []ActionItem
}

// Minutes represents a minutes-of-meeting record attached to a booking.
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

// Minutes review statuses.
const (
	MinutesDraft    = "draft"
	MinutesReviewed = "reviewed"
)

// CreateMinutesParams wraps the data required to record minutes.
type CreateMinutesParams struct {
	Principal Principal
	BookingID string
	Input     MinutesInput
}

// ReviewMinutesParams wraps the data required to mark minutes as reviewed.
type ReviewMinutesParams struct {
	Principal Principal
	MinutesID string
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	Disabled    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user. An empty
// password leaves the stored hash unchanged.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
	Disabled  bool
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}
