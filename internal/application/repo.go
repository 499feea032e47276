package application

import (
	"errors"

	"github.com/example/meetingroom-booking/internal/persistence"
)

// mapRepoError translates persistence sentinels into application errors so
// transport code never depends on the storage package.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}

func toRoom(room persistence.Room) Room {
	return Room{
		ID:        room.ID,
		Name:      room.Name,
		Location:  room.Location,
		Capacity:  room.Capacity,
		Features:  append([]string(nil), room.Features...),
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toBooking(record persistence.Booking) Booking {
	return Booking{
		ID:              record.ID,
		RoomID:          record.RoomID,
		OrganizerID:     record.OrganizerID,
		Title:           record.Title,
		Agenda:          record.Agenda,
		Date:            record.Date,
		StartTime:       record.StartTime,
		EndTime:         record.EndTime,
		Attendees:       record.Attendees,
		Recurring:       record.Recurring,
		VideoConference: record.VideoConference,
		Status:          record.Status,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func toMinutes(record persistence.Minutes) Minutes {
	items := make([]ActionItem, 0, len(record.ActionItems))
	for _, item := range record.ActionItems {
		items = append(items, ActionItem{Task: item.Task, Assignee: item.Assignee, Status: item.Status})
	}
	return Minutes{
		ID:           record.ID,
		BookingID:    record.BookingID,
		Content:      record.Content,
		ActionItems:  items,
		RecordedBy:   record.RecordedBy,
		ReviewStatus: record.ReviewStatus,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toUser(record persistence.User) User {
	return User{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		IsAdmin:     record.IsAdmin,
		Disabled:    record.Disabled,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
