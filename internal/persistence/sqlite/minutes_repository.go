package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

const minutesColumns = "id, booking_id, content, action_items, recorded_by, review_status, created_at, updated_at"

// CreateMinutes inserts a minutes-of-meeting record.
func (s *Store) CreateMinutes(ctx context.Context, minutes persistence.Minutes) error {
	items, err := json.Marshal(minutes.ActionItems)
	if err != nil {
		return fmt.Errorf("sqlite: encode action items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO minutes (`+minutesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		minutes.ID,
		minutes.BookingID,
		minutes.Content,
		string(items),
		minutes.RecordedBy,
		minutes.ReviewStatus,
		minutes.CreatedAt.UTC().Format(time.RFC3339),
		minutes.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateMinutes rewrites an existing minutes record.
func (s *Store) UpdateMinutes(ctx context.Context, minutes persistence.Minutes) error {
	items, err := json.Marshal(minutes.ActionItems)
	if err != nil {
		return fmt.Errorf("sqlite: encode action items: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE minutes
		SET content = ?, action_items = ?, review_status = ?, updated_at = ?
		WHERE id = ?`,
		minutes.Content,
		string(items),
		minutes.ReviewStatus,
		minutes.UpdatedAt.UTC().Format(time.RFC3339),
		minutes.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetMinutes retrieves a minutes record by ID.
func (s *Store) GetMinutes(ctx context.Context, id string) (persistence.Minutes, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+minutesColumns+` FROM minutes WHERE id = ?`, id)
	return scanMinutes(row)
}

// ListMinutesForBooking returns every minutes record attached to a booking.
func (s *Store) ListMinutesForBooking(ctx context.Context, bookingID string) ([]persistence.Minutes, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+minutesColumns+` FROM minutes
		WHERE booking_id = ? ORDER BY created_at ASC, id ASC`, bookingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.Minutes
	for rows.Next() {
		record, err := scanMinutes(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

func scanMinutes(scanner rowScanner) (persistence.Minutes, error) {
	var minutes persistence.Minutes
	var items, createdAt, updatedAt string

	err := scanner.Scan(&minutes.ID, &minutes.BookingID, &minutes.Content, &items, &minutes.RecordedBy, &minutes.ReviewStatus, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Minutes{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(items), &minutes.ActionItems); err != nil {
		return persistence.Minutes{}, fmt.Errorf("sqlite: decode action items: %w", err)
	}
	if minutes.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Minutes{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if minutes.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Minutes{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return minutes, nil
}
