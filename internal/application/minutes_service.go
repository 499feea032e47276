package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

// MinutesService manages minutes-of-meeting records attached to bookings.
type MinutesService struct {
	minutes     persistence.MinutesRepository
	bookings    persistence.BookingRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMinutesService constructs a minutes service with the provided dependencies.
func NewMinutesService(minutes persistence.MinutesRepository, bookings persistence.BookingRepository, idGenerator func() string, now func() time.Time) *MinutesService {
	return NewMinutesServiceWithLogger(minutes, bookings, idGenerator, now, nil)
}

// NewMinutesServiceWithLogger constructs a minutes service with a specified logger.
func NewMinutesServiceWithLogger(minutes persistence.MinutesRepository, bookings persistence.BookingRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MinutesService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MinutesService{
		minutes:     minutes,
		bookings:    bookings,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *MinutesService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MinutesService", operation, attrs...)
}

// CreateMinutes records minutes for a booking. Only the booking's organizer
// or an administrator may record them; records start in the draft status.
func (s *MinutesService) CreateMinutes(ctx context.Context, params CreateMinutesParams) (result Minutes, err error) {
	if s == nil {
		err = fmt.Errorf("MinutesService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateMinutes",
		"principal_id", params.Principal.UserID,
		"booking_id", params.BookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create minutes", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("minutes_id", result.ID).InfoContext(ctx, "minutes created")
	}()

	var booking persistence.Booking
	booking, err = s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if booking.OrganizerID != params.Principal.UserID && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateMinutesInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	record := persistence.Minutes{
		ID:           s.idGenerator(),
		BookingID:    booking.ID,
		Content:      strings.TrimSpace(params.Input.Content),
		ActionItems:  toPersistenceActionItems(params.Input.ActionItems),
		RecordedBy:   params.Principal.UserID,
		ReviewStatus: MinutesDraft,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err = s.minutes.CreateMinutes(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	result = toMinutes(record)
	return
}

// GetMinutes returns a single minutes record for any authenticated user.
func (s *MinutesService) GetMinutes(ctx context.Context, principal Principal, minutesID string) (result Minutes, err error) {
	if s == nil {
		err = fmt.Errorf("MinutesService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetMinutes",
		"principal_id", principal.UserID,
		"minutes_id", minutesID,
	)

	var record persistence.Minutes
	record, err = s.minutes.GetMinutes(ctx, minutesID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to get minutes", "error", err, "error_kind", ErrorKind(err))
		return
	}

	result = toMinutes(record)
	return
}

// ListMinutesForBooking returns every minutes record attached to a booking.
func (s *MinutesService) ListMinutesForBooking(ctx context.Context, principal Principal, bookingID string) (results []Minutes, err error) {
	if s == nil {
		err = fmt.Errorf("MinutesService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListMinutesForBooking",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list minutes", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(results)).InfoContext(ctx, "minutes listed")
	}()

	if _, err = s.bookings.GetBooking(ctx, bookingID); err != nil {
		err = mapRepoError(err)
		return
	}

	var records []persistence.Minutes
	records, err = s.minutes.ListMinutesForBooking(ctx, bookingID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	results = make([]Minutes, 0, len(records))
	for _, record := range records {
		results = append(results, toMinutes(record))
	}
	return
}

// ReviewMinutes marks a draft record as reviewed. Administrators only; a
// second review is a no-op.
func (s *MinutesService) ReviewMinutes(ctx context.Context, params ReviewMinutesParams) (result Minutes, err error) {
	if s == nil {
		err = fmt.Errorf("MinutesService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ReviewMinutes",
		"principal_id", params.Principal.UserID,
		"minutes_id", params.MinutesID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to review minutes", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("minutes_id", result.ID).InfoContext(ctx, "minutes reviewed")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var record persistence.Minutes
	record, err = s.minutes.GetMinutes(ctx, params.MinutesID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if record.ReviewStatus == MinutesReviewed {
		result = toMinutes(record)
		return
	}

	record.ReviewStatus = MinutesReviewed
	record.UpdatedAt = s.now()
	if err = s.minutes.UpdateMinutes(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	result = toMinutes(record)
	return
}

func validateMinutesInput(input MinutesInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Content) == "" {
		vErr.add("content", "content is required")
	}
	for i, item := range input.ActionItems {
		if strings.TrimSpace(item.Task) == "" {
			vErr.add("action_items", fmt.Sprintf("action item %d is missing a task", i+1))
		}
	}

	return vErr
}

func toPersistenceActionItems(items []ActionItem) []persistence.ActionItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]persistence.ActionItem, 0, len(items))
	for _, item := range items {
		status := strings.TrimSpace(item.Status)
		if status == "" {
			status = "open"
		}
		out = append(out, persistence.ActionItem{
			Task:     strings.TrimSpace(item.Task),
			Assignee: strings.TrimSpace(item.Assignee),
			Status:   status,
		})
	}
	return out
}
