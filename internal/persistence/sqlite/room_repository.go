package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

// CreateRoom inserts a new room row.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	features, err := json.Marshal(room.Features)
	if err != nil {
		return fmt.Errorf("sqlite: encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, location, capacity, features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		room.ID,
		room.Name,
		room.Location,
		room.Capacity,
		string(features),
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateRoom rewrites an existing room row.
func (s *Store) UpdateRoom(ctx context.Context, room persistence.Room) error {
	features, err := json.Marshal(room.Features)
	if err != nil {
		return fmt.Errorf("sqlite: encode features: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, location = ?, capacity = ?, features = ?, updated_at = ?
		WHERE id = ?`,
		room.Name,
		room.Location,
		room.Capacity,
		string(features),
		room.UpdatedAt.UTC().Format(time.RFC3339),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, capacity, features, created_at, updated_at
		FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// GetRoomByName retrieves a room by display name. Name comparison is
// case-insensitive via the column collation.
func (s *Store) GetRoomByName(ctx context.Context, name string) (persistence.Room, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, capacity, features, created_at, updated_at
		FROM rooms WHERE name = ?`, name)
	return scanRoom(row)
}

// ListRooms returns every room in catalog creation order.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, capacity, features, created_at, updated_at
		FROM rooms ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room and its bookings.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM minutes WHERE booking_id IN (SELECT id FROM bookings WHERE room_id = ?)", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE room_id = ?", id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		return requireRowsAffected(result)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(scanner rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var features, createdAt, updatedAt string

	err := scanner.Scan(&room.ID, &room.Name, &room.Location, &room.Capacity, &features, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(features), &room.Features); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: decode features: %w", err)
	}
	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return room, nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
