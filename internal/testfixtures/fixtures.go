// Package testfixtures provides deterministic clocks, identifier generators,
// and canonical domain records for tests.
package testfixtures

import (
	"time"

	"github.com/example/meetingroom-booking/internal/booking"
	"github.com/example/meetingroom-booking/internal/persistence"
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserFixture describes a canonical user record.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption mutates a UserFixture under construction.
type UserOption func(*UserFixture)

// NewUserFixture builds a user fixture with sensible defaults.
func NewUserFixture(opts ...UserOption) UserFixture {
	fixture := UserFixture{
		ID:           "user-fixture-1",
		Email:        "alice@example.com",
		DisplayName:  "Alice Example",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the fixture id.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

// WithUserEmail overrides the fixture email.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// WithUserAdmin marks the fixture as an administrator.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) { f.IsAdmin = isAdmin }
}

// WithUserDisabled marks the fixture account as disabled.
func WithUserDisabled(disabled bool) UserOption {
	return func(f *UserFixture) { f.Disabled = disabled }
}

// WithUserPasswordHash overrides the stored hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) { f.PasswordHash = hash }
}

// Persistence converts the fixture into its storage representation.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		IsAdmin:      f.IsAdmin,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// RoomFixture describes a canonical meeting room record.
type RoomFixture struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	Features  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption mutates a RoomFixture under construction.
type RoomOption func(*RoomFixture)

// NewRoomFixture builds a room fixture with sensible defaults.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	fixture := RoomFixture{
		ID:        "room-fixture-1",
		Name:      "Tokyo",
		Location:  "3F",
		Capacity:  8,
		Features:  []string{"Projector"},
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the fixture id.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) { f.ID = id }
}

// WithRoomName overrides the fixture name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) { f.Name = name }
}

// WithRoomCapacity overrides the fixture capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) { f.Capacity = capacity }
}

// WithRoomFeatures overrides the fixture feature set.
func WithRoomFeatures(features ...string) RoomOption {
	return func(f *RoomFixture) { f.Features = features }
}

// Persistence converts the fixture into its storage representation.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Capacity:  f.Capacity,
		Features:  append([]string(nil), f.Features...),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// BookingFixture describes a canonical booking record.
type BookingFixture struct {
	ID          string
	RoomID      string
	OrganizerID string
	Title       string
	Agenda      string
	Date        string
	StartTime   string
	EndTime     string
	Attendees   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingOption mutates a BookingFixture under construction.
type BookingOption func(*BookingFixture)

// NewBookingFixture builds a confirmed booking fixture with sensible defaults.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	fixture := BookingFixture{
		ID:          "booking-fixture-1",
		RoomID:      "room-fixture-1",
		OrganizerID: "user-fixture-1",
		Title:       "Planning",
		Agenda:      "Q1 roadmap",
		Date:        "2024-02-01",
		StartTime:   "09:00",
		EndTime:     "10:30",
		Attendees:   "alice@example.com,bob@example.com",
		Status:      persistence.BookingConfirmed,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the fixture id.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) { f.ID = id }
}

// WithBookingRoom overrides the fixture room id.
func WithBookingRoom(roomID string) BookingOption {
	return func(f *BookingFixture) { f.RoomID = roomID }
}

// WithBookingOrganizer overrides the fixture organizer.
func WithBookingOrganizer(userID string) BookingOption {
	return func(f *BookingFixture) { f.OrganizerID = userID }
}

// WithBookingWindow overrides the fixture date and wall-clock window.
func WithBookingWindow(date, start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.Date = date
		f.StartTime = start
		f.EndTime = end
	}
}

// WithBookingStatus overrides the fixture status.
func WithBookingStatus(status string) BookingOption {
	return func(f *BookingFixture) { f.Status = status }
}

// Persistence converts the fixture into its storage representation.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:          f.ID,
		RoomID:      f.RoomID,
		OrganizerID: f.OrganizerID,
		Title:       f.Title,
		Agenda:      f.Agenda,
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Attendees:   f.Attendees,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// NewBookingRequest builds a submittable booking request matching the room
// fixture defaults.
func NewBookingRequest() booking.Request {
	return booking.Request{
		Title:         "Planning",
		Agenda:        "Q1 roadmap",
		Date:          "2024-02-01",
		StartTime:     "09:00",
		DurationLabel: "1.5 hours",
		Attendees:     []string{"alice@example.com", "bob@example.com"},
		RoomName:      "Tokyo",
	}
}
