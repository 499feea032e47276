package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/meetingroom-booking/internal/availability"
	"github.com/example/meetingroom-booking/internal/booking"
	"github.com/example/meetingroom-booking/internal/persistence"
)

// BookingService orchestrates availability queries and the booking lifecycle.
type BookingService struct {
	bookings    persistence.BookingRepository
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	cache       *availabilityCache
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(bookings persistence.BookingRepository, rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings persistence.BookingRepository, rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		cache:       newAvailabilityCache(0, 0, now),
	}
}

// ConfigureAvailabilityCache replaces the cache with one using the supplied
// TTL and capacity. Zero values keep the defaults.
func (s *BookingService) ConfigureAvailabilityCache(ttl time.Duration, maxEntries int) {
	if s == nil {
		return
	}
	s.cache = newAvailabilityCache(ttl, maxEntries, s.now)
}

// InvalidateAvailability drops every cached availability result. Room
// catalog writes call it through RoomService.SetAvailabilityInvalidator.
func (s *BookingService) InvalidateAvailability() {
	if s == nil {
		return
	}
	s.cache.Invalidate()
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CheckAvailability returns the rooms free for the requested window, in
// catalog order. Results are cached briefly; any booking write invalidates
// the cache.
func (s *BookingService) CheckAvailability(ctx context.Context, principal Principal, query AvailabilityQuery) (rooms []Room, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CheckAvailability",
		"principal_id", principal.UserID,
		"date", query.Date,
		"start_time", query.StartTime,
		"duration_minutes", query.DurationMinutes,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check availability", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).InfoContext(ctx, "availability checked")
	}()

	var startMinute int
	startMinute, err = validateAvailabilityQuery(query)
	if err != nil {
		return
	}

	cacheKey := buildAvailabilityCacheKey(query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		rooms = cached
		return
	}

	var catalog []persistence.Room
	catalog, err = s.rooms.ListRooms(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	var booked []persistence.Booking
	booked, err = s.bookings.ListBookings(ctx, persistence.BookingFilter{
		Date:     query.Date,
		Statuses: []string{persistence.BookingConfirmed},
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}

	filterRooms := make([]availability.Room, 0, len(catalog))
	byID := make(map[string]persistence.Room, len(catalog))
	for _, record := range catalog {
		byID[record.ID] = record
		filterRooms = append(filterRooms, availability.Room{
			ID:       record.ID,
			Name:     record.Name,
			Capacity: record.Capacity,
			Features: record.Features,
		})
	}
	filterBookings := make([]availability.Booking, 0, len(booked))
	for _, record := range booked {
		filterBookings = append(filterBookings, availability.Booking{
			RoomID:    record.RoomID,
			Date:      record.Date,
			StartTime: record.StartTime,
			EndTime:   record.EndTime,
		})
	}

	free, filterErr := availability.FilterRooms(filterRooms, filterBookings, query.Date, startMinute, query.DurationMinutes)
	if filterErr != nil {
		err = availabilityError(filterErr)
		return
	}

	rooms = make([]Room, 0, len(free))
	for _, candidate := range free {
		rooms = append(rooms, toRoom(byID[candidate.ID]))
	}

	s.cache.Store(cacheKey, rooms)
	return
}

// CreateBooking validates and normalizes the request, verifies the room is
// free for the window, and persists a confirmed booking.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"principal_id", params.Principal.UserID,
		"date", params.Request.Date,
		"room", params.Request.RoomName,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", result.ID).InfoContext(ctx, "booking created")
	}()

	validator := booking.Validator{Now: s.now}
	payload, fieldErrs := validator.Normalize(params.Request)
	if len(fieldErrs) > 0 {
		err = validationErrorFrom(fieldErrs)
		return
	}

	var room persistence.Room
	room, err = s.rooms.GetRoomByName(ctx, payload.Room)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			vErr := &ValidationError{}
			vErr.add("room", "room "+payload.Room+" is not recognized")
			err = vErr
			return
		}
		err = mapRepoError(err)
		return
	}

	startMinute, _ := availability.ParseClock(payload.StartTime)
	durationMinutes, _ := booking.DurationMinutes(params.Request.DurationLabel)
	window, windowErr := availability.NewWindow(startMinute, durationMinutes)
	if windowErr != nil {
		err = availabilityError(windowErr)
		return
	}

	var existing []persistence.Booking
	existing, err = s.bookings.ListBookings(ctx, persistence.BookingFilter{
		Date:     payload.Date,
		RoomID:   room.ID,
		Statuses: []string{persistence.BookingConfirmed},
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	for _, record := range existing {
		other, parseErr := availability.ParseWindow(record.StartTime, record.EndTime)
		if parseErr != nil {
			continue
		}
		if window.Overlaps(other) {
			err = ErrRoomUnavailable
			return
		}
	}

	createdAt := s.now()
	record := persistence.Booking{
		ID:              s.idGenerator(),
		RoomID:          room.ID,
		OrganizerID:     params.Principal.UserID,
		Title:           payload.Title,
		Agenda:          payload.Agenda,
		Date:            payload.Date,
		StartTime:       payload.StartTime,
		EndTime:         availability.FormatClock(window.End),
		Attendees:       payload.Attendees,
		Recurring:       payload.Recurring,
		VideoConference: payload.VideoConference,
		Status:          persistence.BookingConfirmed,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	if err = s.bookings.CreateBooking(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	s.cache.Invalidate()

	result = toBooking(record)
	result.RoomName = room.Name
	return
}

// GetBooking returns one booking by id for any authenticated user.
func (s *BookingService) GetBooking(ctx context.Context, principal Principal, bookingID string) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetBooking",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)

	var record persistence.Booking
	record, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to get booking", "error", err, "error_kind", ErrorKind(err))
		return
	}

	result = toBooking(record)
	if room, roomErr := s.rooms.GetRoom(ctx, record.RoomID); roomErr == nil {
		result.RoomName = room.Name
	}
	return
}

// ListBookings returns bookings matching the filter, ordered by date and
// start time. Non-admin callers may browse all bookings; OrganizerOnly
// narrows the listing to the principal's own.
func (s *BookingService) ListBookings(ctx context.Context, params ListBookingsParams) (results []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListBookings",
		"principal_id", params.Principal.UserID,
		"date", params.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(results)).InfoContext(ctx, "bookings listed")
	}()

	filter := persistence.BookingFilter{
		Date:   params.Date,
		RoomID: params.RoomID,
	}
	if params.OrganizerOnly {
		filter.OrganizerID = params.Principal.UserID
	}

	var records []persistence.Booking
	records, err = s.bookings.ListBookings(ctx, filter)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	names := s.roomNames(ctx)
	results = make([]Booking, 0, len(records))
	for _, record := range records {
		item := toBooking(record)
		item.RoomName = names[record.RoomID]
		results = append(results, item)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		if results[i].StartTime != results[j].StartTime {
			return results[i].StartTime < results[j].StartTime
		}
		return results[i].ID < results[j].ID
	})
	return
}

// CancelBooking marks a confirmed booking cancelled. Only the organizer or an
// administrator may cancel; cancelling twice is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}

	logger := s.loggerWith(ctx, "CancelBooking",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)

	record, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if record.OrganizerID != principal.UserID && !principal.IsAdmin {
		logger.ErrorContext(ctx, "failed to cancel booking", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	switch record.Status {
	case persistence.BookingCancelled:
		return nil
	case persistence.BookingFinished:
		vErr := &ValidationError{}
		vErr.add("status", "finished bookings cannot be cancelled")
		logger.ErrorContext(ctx, "failed to cancel booking", "error", vErr, "error_kind", ErrorKind(vErr))
		return vErr
	}

	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, persistence.BookingCancelled, s.now()); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.cache.Invalidate()
	logger.InfoContext(ctx, "booking cancelled")
	return nil
}

// FinishPastBookings flips confirmed bookings whose window has fully elapsed
// to the finished status. It is invoked periodically by the background sweep.
func (s *BookingService) FinishPastBookings(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("BookingService is nil")
	}

	logger := s.loggerWith(ctx, "FinishPastBookings")

	current := s.now()
	date := current.Format("2006-01-02")
	minuteOfDay := current.Hour()*60 + current.Minute()

	count, err := s.bookings.FinishPastBookings(ctx, date, minuteOfDay, current)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to finish past bookings", "error", err, "error_kind", ErrorKind(err))
		return 0, err
	}

	if count > 0 {
		s.cache.Invalidate()
		logger.With("finished_count", count).InfoContext(ctx, "past bookings finished")
	}
	return count, nil
}

func (s *BookingService) roomNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	if s.rooms == nil {
		return names
	}
	catalog, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return names
	}
	for _, record := range catalog {
		names[record.ID] = record.Name
	}
	return names
}

func validateAvailabilityQuery(query AvailabilityQuery) (int, error) {
	vErr := &ValidationError{}

	if strings.TrimSpace(query.Date) == "" {
		vErr.add("date", "date is required")
	} else if _, err := time.Parse("2006-01-02", query.Date); err != nil {
		vErr.add("date", "date must be in YYYY-MM-DD format")
	}

	startMinute := -1
	if strings.TrimSpace(query.StartTime) == "" {
		vErr.add("start_time", "start time is required")
	} else if minute, err := availability.ParseClock(query.StartTime); err != nil {
		vErr.add("start_time", "start time must be in HH:MM format")
	} else {
		startMinute = minute
	}

	if query.DurationMinutes <= 0 {
		vErr.add("duration", "duration must be positive")
	} else if startMinute >= 0 {
		if _, err := availability.NewWindow(startMinute, query.DurationMinutes); errors.Is(err, availability.ErrCrossesMidnight) {
			vErr.add("duration", "meeting must end by midnight")
		}
	}

	if vErr.HasErrors() {
		return 0, vErr
	}
	return startMinute, nil
}

func validationErrorFrom(fieldErrs []booking.FieldError) *ValidationError {
	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		vErr.add(fe.Field, fe.Message)
	}
	return vErr
}

func availabilityError(err error) error {
	vErr := &ValidationError{}
	switch {
	case errors.Is(err, availability.ErrCrossesMidnight):
		vErr.add("duration", "meeting must end by midnight")
	case errors.Is(err, availability.ErrInvalidDuration):
		vErr.add("duration", "duration must be positive")
	case errors.Is(err, availability.ErrInvalidClock):
		vErr.add("start_time", "start time must be in HH:MM format")
	default:
		return err
	}
	return vErr
}
