package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meetingroom-booking/internal/booking"
	"github.com/example/meetingroom-booking/internal/persistence"
)

func newBookingService(t *testing.T) (*BookingService, *persistence.MemoryStore) {
	t.Helper()
	store := persistence.NewMemoryStore()
	return NewBookingService(store, store, sequentialIDs("booking"), fixedNow), store
}

func seedRoom(t *testing.T, store *persistence.MemoryStore, id, name string) {
	t.Helper()
	err := store.CreateRoom(context.Background(), persistence.Room{
		ID:        id,
		Name:      name,
		Location:  "3F",
		Capacity:  8,
		CreatedAt: fixedNow(),
		UpdatedAt: fixedNow(),
	})
	require.NoError(t, err)
}

func seedBooking(t *testing.T, store *persistence.MemoryStore, id, roomID, date, start, end string) {
	t.Helper()
	err := store.CreateBooking(context.Background(), persistence.Booking{
		ID:          id,
		RoomID:      roomID,
		OrganizerID: "user-1",
		Title:       "Standup",
		Agenda:      "Daily sync",
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Attendees:   "a@example.com",
		Status:      persistence.BookingConfirmed,
		CreatedAt:   fixedNow(),
		UpdatedAt:   fixedNow(),
	})
	require.NoError(t, err)
}

func bookingRequest() booking.Request {
	return booking.Request{
		Title:         "Planning",
		Agenda:        "Q1 roadmap",
		Date:          "2024-02-01",
		StartTime:     "10:30",
		DurationLabel: "1 hour",
		Attendees:     []string{"alice@example.com", "bob@example.com"},
		RoomName:      "Tokyo",
	}
}

func TestBookingServiceCheckAvailability(t *testing.T) {
	user := Principal{UserID: "user-1"}

	t.Run("excludes rooms with overlapping bookings", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Alpha")
		seedRoom(t, store, "room-b", "Beta")
		seedRoom(t, store, "room-c", "Gamma")
		seedBooking(t, store, "bk-1", "room-a", "2024-02-01", "09:00", "10:30")

		rooms, err := svc.CheckAvailability(context.Background(), user, AvailabilityQuery{
			Date: "2024-02-01", StartTime: "10:00", DurationMinutes: 60,
		})
		require.NoError(t, err)
		names := roomNamesOf(rooms)
		assert.Equal(t, []string{"Beta", "Gamma"}, names)
	})

	t.Run("touching windows do not conflict", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Alpha")
		seedBooking(t, store, "bk-1", "room-a", "2024-02-01", "09:00", "10:30")

		rooms, err := svc.CheckAvailability(context.Background(), user, AvailabilityQuery{
			Date: "2024-02-01", StartTime: "10:30", DurationMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha"}, roomNamesOf(rooms))
	})

	t.Run("rejects malformed queries with field errors", func(t *testing.T) {
		svc, _ := newBookingService(t)
		_, err := svc.CheckAvailability(context.Background(), user, AvailabilityQuery{
			Date: "02/01/2024", StartTime: "25:00", DurationMinutes: 0,
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		fields := make([]string, 0, len(vErr.Fields))
		for _, fe := range vErr.Fields {
			fields = append(fields, fe.Field)
		}
		assert.Equal(t, []string{"date", "start_time", "duration"}, fields)
	})

	t.Run("rejects windows crossing midnight", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Alpha")
		_, err := svc.CheckAvailability(context.Background(), user, AvailabilityQuery{
			Date: "2024-02-01", StartTime: "23:30", DurationMinutes: 60,
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		msg, ok := vErr.ErrorFor("duration")
		require.True(t, ok)
		assert.Contains(t, msg, "midnight")
	})

	t.Run("writes invalidate cached results", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")

		query := AvailabilityQuery{Date: "2024-02-01", StartTime: "10:30", DurationMinutes: 60}
		rooms, err := svc.CheckAvailability(context.Background(), user, query)
		require.NoError(t, err)
		require.Len(t, rooms, 1)

		_, err = svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: user,
			Request:   bookingRequest(),
		})
		require.NoError(t, err)

		rooms, err = svc.CheckAvailability(context.Background(), user, query)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("room catalog writes invalidate cached results", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")

		roomSvc := NewRoomService(store, sequentialIDs("room"), fixedNow)
		roomSvc.SetAvailabilityInvalidator(svc.InvalidateAvailability)

		query := AvailabilityQuery{Date: "2024-02-01", StartTime: "10:30", DurationMinutes: 60}
		rooms, err := svc.CheckAvailability(context.Background(), user, query)
		require.NoError(t, err)
		require.Len(t, rooms, 1)

		_, err = roomSvc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			Input:     RoomInput{Name: "Osaka", Location: "2F", Capacity: 4},
		})
		require.NoError(t, err)

		rooms, err = svc.CheckAvailability(context.Background(), user, query)
		require.NoError(t, err)
		assert.Equal(t, []string{"Osaka", "Tokyo"}, roomNamesOf(rooms))
	})
}

func TestBookingServiceCreateBooking(t *testing.T) {
	user := Principal{UserID: "user-1"}

	t.Run("persists a confirmed booking", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")

		created, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: user,
			Request:   bookingRequest(),
		})
		require.NoError(t, err)
		assert.Equal(t, "room-a", created.RoomID)
		assert.Equal(t, "Tokyo", created.RoomName)
		assert.Equal(t, "user-1", created.OrganizerID)
		assert.Equal(t, "11:30", created.EndTime)
		assert.Equal(t, "alice@example.com,bob@example.com", created.Attendees)
		assert.Equal(t, persistence.BookingConfirmed, created.Status)
	})

	t.Run("reports every violated rule at once", func(t *testing.T) {
		svc, _ := newBookingService(t)
		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: user,
			Request:   booking.Request{},
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Len(t, vErr.Fields, 7)
	})

	t.Run("unknown duration label fails validation", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")
		req := bookingRequest()
		req.DurationLabel = "45 minutes"
		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{Principal: user, Request: req})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		msg, ok := vErr.ErrorFor("duration")
		require.True(t, ok)
		assert.Contains(t, msg, "not a recognized option")
	})

	t.Run("rejects unknown rooms", func(t *testing.T) {
		svc, _ := newBookingService(t)
		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: user,
			Request:   bookingRequest(),
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		_, ok := vErr.ErrorFor("room")
		assert.True(t, ok)
	})

	t.Run("rejects conflicting windows", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")
		seedBooking(t, store, "bk-1", "room-a", "2024-02-01", "10:00", "11:00")

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: user,
			Request:   bookingRequest(),
		})
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	})

	t.Run("allows a booking ending exactly at midnight", func(t *testing.T) {
		svc, store := newBookingService(t)
		seedRoom(t, store, "room-a", "Tokyo")
		req := bookingRequest()
		req.StartTime = "23:00"
		created, err := svc.CreateBooking(context.Background(), CreateBookingParams{Principal: user, Request: req})
		require.NoError(t, err)
		assert.Equal(t, "24:00", created.EndTime)
	})
}

func TestBookingServiceCancelBooking(t *testing.T) {
	organizer := Principal{UserID: "user-1"}
	admin := Principal{UserID: "admin-1", IsAdmin: true}

	svc, store := newBookingService(t)
	seedRoom(t, store, "room-a", "Tokyo")
	seedBooking(t, store, "bk-1", "room-a", "2024-02-01", "10:00", "11:00")

	t.Run("only the organizer or an admin may cancel", func(t *testing.T) {
		err := svc.CancelBooking(context.Background(), Principal{UserID: "user-2"}, "bk-1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("organizer cancels and repeat cancels are no-ops", func(t *testing.T) {
		require.NoError(t, svc.CancelBooking(context.Background(), organizer, "bk-1"))
		record, err := store.GetBooking(context.Background(), "bk-1")
		require.NoError(t, err)
		assert.Equal(t, persistence.BookingCancelled, record.Status)

		require.NoError(t, svc.CancelBooking(context.Background(), admin, "bk-1"))
	})

	t.Run("finished bookings cannot be cancelled", func(t *testing.T) {
		seedBooking(t, store, "bk-2", "room-a", "2024-01-09", "10:00", "11:00")
		count, err := svc.FinishPastBookings(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, count)

		err = svc.CancelBooking(context.Background(), organizer, "bk-2")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestBookingServiceListBookings(t *testing.T) {
	svc, store := newBookingService(t)
	seedRoom(t, store, "room-a", "Tokyo")
	seedRoom(t, store, "room-b", "Osaka")
	seedBooking(t, store, "bk-1", "room-a", "2024-02-02", "09:00", "10:00")
	seedBooking(t, store, "bk-2", "room-b", "2024-02-01", "13:00", "14:00")
	seedBooking(t, store, "bk-3", "room-a", "2024-02-01", "09:00", "10:00")

	results, err := svc.ListBookings(context.Background(), ListBookingsParams{
		Principal: Principal{UserID: "user-1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"bk-3", "bk-2", "bk-1"}, []string{results[0].ID, results[1].ID, results[2].ID})
	assert.Equal(t, "Tokyo", results[0].RoomName)

	filtered, err := svc.ListBookings(context.Background(), ListBookingsParams{
		Principal: Principal{UserID: "user-1"},
		RoomID:    "room-b",
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "bk-2", filtered[0].ID)
}

func roomNamesOf(rooms []Room) []string {
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}
	return names
}
