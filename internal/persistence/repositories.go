package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for the room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByName(ctx context.Context, name string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries. Zero values mean "any".
type BookingFilter struct {
	Date        string
	RoomID      string
	OrganizerID string
	Statuses    []string
}

// BookingRepository stores reservations.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	// FinishPastBookings flips confirmed bookings whose window ended before
	// the supplied date and minute-of-day to the finished status, returning
	// how many rows changed.
	FinishPastBookings(ctx context.Context, date string, minuteOfDay int, updatedAt time.Time) (int, error)
}

// MinutesRepository stores minutes-of-meeting records.
type MinutesRepository interface {
	CreateMinutes(ctx context.Context, minutes Minutes) error
	UpdateMinutes(ctx context.Context, minutes Minutes) error
	GetMinutes(ctx context.Context, id string) (Minutes, error)
	ListMinutesForBooking(ctx context.Context, bookingID string) ([]Minutes, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) (int, error)
}

// Store aggregates every repository a storage backend must provide.
type Store interface {
	UserRepository
	RoomRepository
	BookingRepository
	MinutesRepository
	SessionRepository

	Migrate(ctx context.Context) error
	Close() error
}
