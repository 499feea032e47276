package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/meetingroom-booking/internal/application"
	"github.com/example/meetingroom-booking/internal/booking"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	GetBooking(ctx context.Context, principal application.Principal, bookingID string) (application.Booking, error)
	ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
	CancelBooking(ctx context.Context, principal application.Principal, bookingID string) error
}

type minutesService interface {
	CreateMinutes(ctx context.Context, params application.CreateMinutesParams) (application.Minutes, error)
	ListMinutesForBooking(ctx context.Context, principal application.Principal, bookingID string) ([]application.Minutes, error)
	ReviewMinutes(ctx context.Context, params application.ReviewMinutesParams) (application.Minutes, error)
}

type BookingHandler struct {
	service   bookingService
	minutes   minutesService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, minutes minutesService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, minutes: minutes, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create",
		"principal_id", principal.UserID,
		"date", req.Date,
		"room", req.Room,
	)

	created, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Request:   req.toRequest(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", created.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(created)})
}

// Get handles GET /api/bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := strings.TrimSpace(mux.Vars(r)["id"])
	if bookingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "booking_id", bookingID)

	found, err := h.service.GetBooking(r.Context(), principal, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(found)})
}

// List handles GET /api/bookings. Optional query parameters: date, room_id,
// and mine=true to restrict to the caller's own bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	results, err := h.service.ListBookings(r.Context(), application.ListBookingsParams{
		Principal:     principal,
		Date:          strings.TrimSpace(query.Get("date")),
		RoomID:        strings.TrimSpace(query.Get("room_id")),
		OrganizerOnly: query.Get("mine") == "true",
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(results)).InfoContext(r.Context(), "bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(results)})
}

// Delete handles DELETE /api/bookings/{id} by cancelling the booking.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := strings.TrimSpace(mux.Vars(r)["id"])
	if bookingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "booking_id", bookingID)

	if err := h.service.CancelBooking(r.Context(), principal, bookingID); err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CreateMinutes handles POST /api/bookings/{id}/minutes.
func (h *BookingHandler) CreateMinutes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.minutes == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := strings.TrimSpace(mux.Vars(r)["id"])
	if bookingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req minutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateMinutes", "principal_id", principal.UserID, "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode minutes request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateMinutes", "principal_id", principal.UserID, "booking_id", bookingID)

	created, err := h.minutes.CreateMinutes(r.Context(), application.CreateMinutesParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "minutes creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("minutes_id", created.ID).InfoContext(r.Context(), "minutes created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, minutesResponse{Minutes: toMinutesDTO(created)})
}

// ListMinutes handles GET /api/bookings/{id}/minutes.
func (h *BookingHandler) ListMinutes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.minutes == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := strings.TrimSpace(mux.Vars(r)["id"])
	if bookingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ListMinutes", "principal_id", principal.UserID, "booking_id", bookingID)

	results, err := h.minutes.ListMinutesForBooking(r.Context(), principal, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "minutes list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]minutesDTO, 0, len(results))
	for _, record := range results {
		dtos = append(dtos, toMinutesDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMinutesResponse{Minutes: dtos})
}

// ReviewMinutes handles PUT /api/minutes/{id}/review.
func (h *BookingHandler) ReviewMinutes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.minutes == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	minutesID := strings.TrimSpace(mux.Vars(r)["id"])
	if minutesID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ReviewMinutes", "principal_id", principal.UserID, "minutes_id", minutesID)

	reviewed, err := h.minutes.ReviewMinutes(r.Context(), application.ReviewMinutesParams{
		Principal: principal,
		MinutesID: minutesID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "minutes review failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "minutes reviewed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, minutesResponse{Minutes: toMinutesDTO(reviewed)})
}

// bookingRequest mirrors the wire shape the booking form submits: attendees
// as a list, duration as the form's label.
type bookingRequest struct {
	Title           string   `json:"title"`
	Agenda          string   `json:"agenda"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	Duration        string   `json:"duration"`
	Attendees       []string `json:"attendees"`
	Room            string   `json:"room"`
	Recurring       bool     `json:"recurring"`
	VideoConference bool     `json:"video_conference"`
}

func (r bookingRequest) toRequest() booking.Request {
	return booking.Request{
		Title:           r.Title,
		Agenda:          r.Agenda,
		Date:            strings.TrimSpace(r.Date),
		StartTime:       strings.TrimSpace(r.StartTime),
		DurationLabel:   strings.TrimSpace(r.Duration),
		Attendees:       r.Attendees,
		RoomName:        strings.TrimSpace(r.Room),
		Recurring:       r.Recurring,
		VideoConference: r.VideoConference,
	}
}

type bookingDTO struct {
	ID              string `json:"id"`
	RoomID          string `json:"room_id"`
	RoomName        string `json:"room_name"`
	OrganizerID     string `json:"organizer_id"`
	Title           string `json:"title"`
	Agenda          string `json:"agenda"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Attendees       string `json:"attendees"`
	Recurring       bool   `json:"recurring"`
	VideoConference bool   `json:"video_conference"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toBookingDTO(record application.Booking) bookingDTO {
	return bookingDTO{
		ID:              record.ID,
		RoomID:          record.RoomID,
		RoomName:        record.RoomName,
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
		CreatedAt:       record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBookingDTOs(records []application.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toBookingDTO(record))
	}
	return out
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type actionItemDTO struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
}

type minutesRequest struct {
	Content     string          `json:"content"`
	ActionItems []actionItemDTO `json:"action_items"`
}

func (r minutesRequest) toInput() application.MinutesInput {
	items := make([]application.ActionItem, 0, len(r.ActionItems))
	for _, item := range r.ActionItems {
		items = append(items, application.ActionItem{
			Task:     item.Task,
			Assignee: item.Assignee,
			Status:   item.Status,
		})
	}
	return application.MinutesInput{Content: r.Content, ActionItems: items}
}

type minutesDTO struct {
	ID           string          `json:"id"`
	BookingID    string          `json:"booking_id"`
	Content      string          `json:"content"`
	ActionItems  []actionItemDTO `json:"action_items"`
	RecordedBy   string          `json:"recorded_by"`
	ReviewStatus string          `json:"review_status"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func toMinutesDTO(record application.Minutes) minutesDTO {
	items := make([]actionItemDTO, 0, len(record.ActionItems))
	for _, item := range record.ActionItems {
		items = append(items, actionItemDTO{Task: item.Task, Assignee: item.Assignee, Status: item.Status})
	}
	return minutesDTO{
		ID:           record.ID,
		BookingID:    record.BookingID,
		Content:      record.Content,
		ActionItems:  items,
		RecordedBy:   record.RecordedBy,
		ReviewStatus: record.ReviewStatus,
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type minutesResponse struct {
	Minutes minutesDTO `json:"minutes"`
}

type listMinutesResponse struct {
	Minutes []minutesDTO `json:"minutes"`
}
