package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

const bookingColumns = `id, room_id, organizer_id, title, agenda, date, start_time, end_time,
	attendees, recurring, video_conference, status, created_at, updated_at`

// CreateBooking inserts a reservation row.
func (s *Store) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.RoomID,
		booking.OrganizerID,
		booking.Title,
		booking.Agenda,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Attendees,
		boolToInt(booking.Recurring),
		boolToInt(booking.VideoConference),
		booking.Status,
		booking.CreatedAt.UTC().Format(time.RFC3339),
		booking.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetBooking retrieves a reservation by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// ListBookings returns reservations matching the filter, ordered by date
// then start time.
func (s *Store) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var clauses []string
	var args []any

	if filter.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.RoomID != "" {
		clauses = append(clauses, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.OrganizerID != "" {
		clauses = append(clauses, "organizer_id = ?")
		args = append(args, filter.OrganizerID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Statuses)), ", ")
		clauses = append(clauses, "status IN ("+placeholders+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date ASC, start_time ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}

// UpdateBookingStatus changes the lifecycle status of a reservation.
func (s *Store) UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?",
		status, updatedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// FinishPastBookings flips confirmed bookings whose window has fully passed
// to the finished status. ISO dates and zero-padded clocks compare correctly
// as text.
func (s *Store) FinishPastBookings(ctx context.Context, date string, minuteOfDay int, updatedAt time.Time) (int, error) {
	clock := fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ?
		WHERE status = ? AND (date < ? OR (date = ? AND end_time <= ?))`,
		persistence.BookingFinished,
		updatedAt.UTC().Format(time.RFC3339),
		persistence.BookingConfirmed,
		date, date, clock,
	)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return int(affected), nil
}

func scanBooking(scanner rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var recurring, videoConference int
	var createdAt, updatedAt string

	err := scanner.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.OrganizerID,
		&booking.Title,
		&booking.Agenda,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Attendees,
		&recurring,
		&videoConference,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}

	booking.Recurring = recurring != 0
	booking.VideoConference = videoConference != 0
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return booking, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
