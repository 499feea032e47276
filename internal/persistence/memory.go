package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. It backs the fixture
// storage driver and doubles as the repository stub for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]User
	rooms    map[string]Room
	bookings map[string]Booking
	minutes  map[string]Minutes
	sessions map[string]Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]User),
		rooms:    make(map[string]Room),
		bookings: make(map[string]Booking),
		minutes:  make(map[string]Minutes),
		sessions: make(map[string]Session),
	}
}

// Migrate is a no-op for the in-memory implementation.
func (s *MemoryStore) Migrate(context.Context) error { return nil }

// Close is a no-op for the in-memory implementation.
func (s *MemoryStore) Close() error { return nil }

// --- UserRepository ---

func (s *MemoryStore) CreateUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return ErrDuplicate
	}
	if s.emailTakenLocked(user.ID, user.Email) {
		return ErrDuplicate
	}

	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	if s.emailTakenLocked(user.ID, user.Email) {
		return ErrDuplicate
	}

	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(email)
	for _, user := range s.users {
		if strings.ToLower(user.Email) == lower {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) emailTakenLocked(id, email string) bool {
	lower := strings.ToLower(email)
	for _, user := range s.users {
		if user.ID != id && strings.ToLower(user.Email) == lower {
			return true
		}
	}
	return false
}

// --- RoomRepository ---

func (s *MemoryStore) CreateRoom(ctx context.Context, room Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room.Capacity <= 0 {
		return ErrConstraintViolation
	}
	if _, ok := s.rooms[room.ID]; ok {
		return ErrDuplicate
	}
	if s.roomNameTakenLocked(room.ID, room.Name) {
		return ErrDuplicate
	}

	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *MemoryStore) UpdateRoom(ctx context.Context, room Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room.Capacity <= 0 {
		return ErrConstraintViolation
	}
	if _, ok := s.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	if s.roomNameTakenLocked(room.ID, room.Name) {
		return ErrDuplicate
	}

	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *MemoryStore) GetRoom(ctx context.Context, id string) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return cloneRoom(room), nil
}

func (s *MemoryStore) GetRoomByName(ctx context.Context, name string) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if strings.EqualFold(room.Name, name) {
			return cloneRoom(room), nil
		}
	}
	return Room{}, ErrNotFound
}

func (s *MemoryStore) ListRooms(ctx context.Context) ([]Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}

// DeleteRoom removes a room together with its bookings and their minutes,
// matching the SQLite driver's cascade.
func (s *MemoryStore) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return ErrNotFound
	}
	for bookingID, booking := range s.bookings {
		if booking.RoomID != id {
			continue
		}
		for minutesID, minutes := range s.minutes {
			if minutes.BookingID == bookingID {
				delete(s.minutes, minutesID)
			}
		}
		delete(s.bookings, bookingID)
	}
	delete(s.rooms, id)
	return nil
}

func (s *MemoryStore) roomNameTakenLocked(id, name string) bool {
	for _, room := range s.rooms {
		if room.ID != id && strings.EqualFold(room.Name, name) {
			return true
		}
	}
	return false
}

// --- BookingRepository ---

func (s *MemoryStore) CreateBooking(ctx context.Context, booking Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := s.rooms[booking.RoomID]; !ok {
		return ErrConstraintViolation
	}

	s.bookings[booking.ID] = booking
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return booking, nil
}

func (s *MemoryStore) ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		if !matchesBookingFilter(booking, filter) {
			continue
		}
		bookings = append(bookings, booking)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		if bookings[i].StartTime != bookings[j].StartTime {
			return bookings[i].StartTime < bookings[j].StartTime
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = updatedAt
	s.bookings[id] = booking
	return nil
}

func (s *MemoryStore) FinishPastBookings(ctx context.Context, date string, minuteOfDay int, updatedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clock := formatMinute(minuteOfDay)
	changed := 0
	for id, booking := range s.bookings {
		if booking.Status != BookingConfirmed {
			continue
		}
		if booking.Date > date {
			continue
		}
		if booking.Date == date && booking.EndTime > clock {
			continue
		}
		booking.Status = BookingFinished
		booking.UpdatedAt = updatedAt
		s.bookings[id] = booking
		changed++
	}
	return changed, nil
}

func matchesBookingFilter(booking Booking, filter BookingFilter) bool {
	if filter.Date != "" && booking.Date != filter.Date {
		return false
	}
	if filter.RoomID != "" && booking.RoomID != filter.RoomID {
		return false
	}
	if filter.OrganizerID != "" && booking.OrganizerID != filter.OrganizerID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if booking.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// --- MinutesRepository ---

func (s *MemoryStore) CreateMinutes(ctx context.Context, minutes Minutes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.minutes[minutes.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := s.bookings[minutes.BookingID]; !ok {
		return ErrConstraintViolation
	}

	s.minutes[minutes.ID] = cloneMinutes(minutes)
	return nil
}

func (s *MemoryStore) UpdateMinutes(ctx context.Context, minutes Minutes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.minutes[minutes.ID]; !ok {
		return ErrNotFound
	}
	s.minutes[minutes.ID] = cloneMinutes(minutes)
	return nil
}

func (s *MemoryStore) GetMinutes(ctx context.Context, id string) (Minutes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	minutes, ok := s.minutes[id]
	if !ok {
		return Minutes{}, ErrNotFound
	}
	return cloneMinutes(minutes), nil
}

func (s *MemoryStore) ListMinutesForBooking(ctx context.Context, bookingID string) ([]Minutes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Minutes, 0, 1)
	for _, minutes := range s.minutes {
		if minutes.BookingID == bookingID {
			records = append(records, cloneMinutes(minutes))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// --- SessionRepository ---

func (s *MemoryStore) CreateSession(ctx context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.Token]; ok {
		return ErrDuplicate
	}
	s.sessions[session.Token] = session
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *MemoryStore) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return ErrNotFound
	}
	stamp := revokedAt
	session.RevokedAt = &stamp
	s.sessions[token] = session
	return nil
}

func (s *MemoryStore) DeleteExpiredSessions(ctx context.Context, reference time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.ExpiresAt.Before(reference) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func cloneRoom(room Room) Room {
	out := room
	out.Features = append([]string(nil), room.Features...)
	return out
}

func cloneMinutes(minutes Minutes) Minutes {
	out := minutes
	out.ActionItems = append([]ActionItem(nil), minutes.ActionItems...)
	return out
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
