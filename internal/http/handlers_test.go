package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/meetingroom-booking/internal/application"
	"github.com/example/meetingroom-booking/internal/booking"
)

type stubAvailabilityService struct {
	checkFunc func(ctx context.Context, principal application.Principal, query application.AvailabilityQuery) ([]application.Room, error)
}

func (s *stubAvailabilityService) CheckAvailability(ctx context.Context, principal application.Principal, query application.AvailabilityQuery) ([]application.Room, error) {
	return s.checkFunc(ctx, principal, query)
}

type stubRoomService struct {
	createFunc func(ctx context.Context, params application.CreateRoomParams) (application.Room, error)
	listFunc   func(ctx context.Context, principal application.Principal) ([]application.Room, error)
}

func (s *stubRoomService) CreateRoom(ctx context.Context, params application.CreateRoomParams) (application.Room, error) {
	return s.createFunc(ctx, params)
}

func (s *stubRoomService) UpdateRoom(context.Context, application.UpdateRoomParams) (application.Room, error) {
	return application.Room{}, application.ErrNotFound
}

func (s *stubRoomService) DeleteRoom(context.Context, application.Principal, string) error {
	return application.ErrNotFound
}

func (s *stubRoomService) GetRoom(context.Context, application.Principal, string) (application.Room, error) {
	return application.Room{}, application.ErrNotFound
}

func (s *stubRoomService) ListRooms(ctx context.Context, principal application.Principal) ([]application.Room, error) {
	return s.listFunc(ctx, principal)
}

type stubBookingService struct {
	createFunc func(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	cancelFunc func(ctx context.Context, principal application.Principal, bookingID string) error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error) {
	return s.createFunc(ctx, params)
}

func (s *stubBookingService) GetBooking(context.Context, application.Principal, string) (application.Booking, error) {
	return application.Booking{}, application.ErrNotFound
}

func (s *stubBookingService) ListBookings(context.Context, application.ListBookingsParams) ([]application.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) CancelBooking(ctx context.Context, principal application.Principal, bookingID string) error {
	return s.cancelFunc(ctx, principal, bookingID)
}

type stubAuthService struct {
	authenticateFunc func(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	revokeFunc       func(ctx context.Context, token string) error
}

func (s *stubAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.authenticateFunc(ctx, params)
}

func (s *stubAuthService) RevokeSession(ctx context.Context, token string) error {
	return s.revokeFunc(ctx, token)
}

func requestWithPrincipal(method, target, body string, principal application.Principal) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(ContextWithPrincipal(req.Context(), principal))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestRoomHandlerCheckAvailability(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	availability := &stubAvailabilityService{
		checkFunc: func(_ context.Context, _ application.Principal, query application.AvailabilityQuery) ([]application.Room, error) {
			if query.Date != "2024-02-01" || query.StartTime != "10:30" || query.DurationMinutes != 60 {
				t.Fatalf("unexpected query: %+v", query)
			}
			return []application.Room{
				{ID: "room-1", Name: "Osaka", Location: "2F", Capacity: 4, CreatedAt: now, UpdatedAt: now},
				{ID: "room-2", Name: "Tokyo", Location: "3F", Capacity: 8, CreatedAt: now, UpdatedAt: now},
			}, nil
		},
	}
	handler := NewRoomHandler(nil, availability, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/rooms/check-availability",
		`{"date":"2024-02-01","start_time":"10:30","duration":60}`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.CheckAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp availabilityResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("expected success=true")
	}
	if len(resp.Data.AvailableRooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(resp.Data.AvailableRooms))
	}
	if resp.Data.AvailableRooms[0].Name != "Osaka" || resp.Data.AvailableRooms[1].Name != "Tokyo" {
		t.Fatalf("unexpected room order: %+v", resp.Data.AvailableRooms)
	}
}

func TestRoomHandlerCheckAvailabilityEmptyListSerializesAsArray(t *testing.T) {
	availability := &stubAvailabilityService{
		checkFunc: func(context.Context, application.Principal, application.AvailabilityQuery) ([]application.Room, error) {
			return nil, nil
		},
	}
	handler := NewRoomHandler(nil, availability, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/rooms/check-availability",
		`{"date":"2024-02-01","start_time":"10:30","duration":60}`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.CheckAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"available_rooms":[]`) {
		t.Fatalf("expected an empty JSON array, got %s", rec.Body.String())
	}
}

func TestRoomHandlerCheckAvailabilityValidation(t *testing.T) {
	availability := &stubAvailabilityService{
		checkFunc: func(context.Context, application.Principal, application.AvailabilityQuery) ([]application.Room, error) {
			return nil, &application.ValidationError{Fields: []application.FieldError{
				{Field: "date", Message: "date must be formatted as YYYY-MM-DD"},
				{Field: "start_time", Message: "start time must be formatted as HH:MM"},
				{Field: "duration", Message: "duration is not a recognized option"},
			}}
		},
	}
	handler := NewRoomHandler(nil, availability, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/rooms/check-availability",
		`{"date":"bad","start_time":"bad","duration":-5}`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.CheckAvailability(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var resp errorResponse
	decodeBody(t, rec, &resp)
	if len(resp.Errors) != 3 {
		t.Fatalf("expected 3 field errors, got %d", len(resp.Errors))
	}
	wantFields := []string{"date", "start_time", "duration"}
	for i, want := range wantFields {
		if resp.Errors[i].Field != want {
			t.Fatalf("expected field %q at position %d, got %q", want, i, resp.Errors[i].Field)
		}
	}
}

func TestBookingHandlerCreateReportsOrderedValidationErrors(t *testing.T) {
	service := &stubBookingService{
		createFunc: func(context.Context, application.CreateBookingParams) (application.Booking, error) {
			return application.Booking{}, &application.ValidationError{Fields: []application.FieldError{
				{Field: "title", Message: "title is required"},
				{Field: "date", Message: "date must be formatted as YYYY-MM-DD"},
				{Field: "room", Message: "room is required"},
			}}
		},
	}
	handler := NewBookingHandler(service, nil, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/bookings", `{"date":"bad"}`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	decodeBody(t, rec, &resp)
	if len(resp.Errors) != 3 {
		t.Fatalf("expected 3 field errors, got %d", len(resp.Errors))
	}
	if resp.Errors[0].Field != "title" || resp.Errors[2].Field != "room" {
		t.Fatalf("field order was not preserved: %+v", resp.Errors)
	}
}

func TestBookingHandlerCreateConflict(t *testing.T) {
	service := &stubBookingService{
		createFunc: func(context.Context, application.CreateBookingParams) (application.Booking, error) {
			return application.Booking{}, application.ErrRoomUnavailable
		},
	}
	handler := NewBookingHandler(service, nil, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/bookings", `{"room":"Tokyo"}`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.ErrorCode != "ROOM_UNAVAILABLE" {
		t.Fatalf("expected ROOM_UNAVAILABLE, got %q", resp.ErrorCode)
	}
}

func TestBookingHandlerCreatePassesRequestThrough(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	var got booking.Request
	service := &stubBookingService{
		createFunc: func(_ context.Context, params application.CreateBookingParams) (application.Booking, error) {
			got = params.Request
			return application.Booking{
				ID:        "bk-1",
				RoomID:    "room-1",
				RoomName:  "Tokyo",
				Date:      "2024-02-01",
				StartTime: "10:30",
				EndTime:   "11:30",
				Status:    "confirmed",
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	}
	handler := NewBookingHandler(service, nil, nil)

	body := `{"title":"Planning","agenda":"Q2","date":"2024-02-01","start_time":"10:30","duration":"1 hour","attendees":["ann","bob"],"room":"Tokyo","video_conference":true}`
	req := requestWithPrincipal(http.MethodPost, "/api/bookings", body,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.DurationLabel != "1 hour" || got.RoomName != "Tokyo" || !got.VideoConference {
		t.Fatalf("request was not mapped faithfully: %+v", got)
	}
	if len(got.Attendees) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(got.Attendees))
	}

	var resp bookingResponse
	decodeBody(t, rec, &resp)
	if resp.Booking.EndTime != "11:30" {
		t.Fatalf("expected end_time 11:30, got %q", resp.Booking.EndTime)
	}
}

func TestBookingHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler := NewBookingHandler(&stubBookingService{}, nil, nil)

	req := requestWithPrincipal(http.MethodPost, "/api/bookings", `{"title":`,
		application.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthHandlerCreateSession(t *testing.T) {
	expires := time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)
	service := &stubAuthService{
		authenticateFunc: func(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
			if params.Email != "admin@example.com" {
				t.Fatalf("expected lowercased email, got %q", params.Email)
			}
			return application.AuthenticateResult{
				User: application.User{ID: "user-1", DisplayName: "Admin", IsAdmin: true},
				Session: application.Session{
					ID:        "sess-1",
					Token:     "token-1",
					ExpiresAt: expires,
				},
			}, nil
		},
	}
	handler := NewAuthHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"email":"Admin@Example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()
	handler.CreateSession(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Session-Token") != "token-1" {
		t.Fatalf("expected session token header, got %q", rec.Header().Get("X-Session-Token"))
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_token" {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "token-1" {
		t.Fatalf("expected session cookie to carry the token, got %+v", sessionCookie)
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("expected an http-only cookie")
	}

	var resp loginResponse
	decodeBody(t, rec, &resp)
	if resp.Token != "token-1" || resp.Principal.UserID != "user-1" || !resp.Principal.IsAdmin {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestAuthHandlerCreateSessionRejectsBadCredentials(t *testing.T) {
	service := &stubAuthService{
		authenticateFunc: func(context.Context, application.AuthenticateParams) (application.AuthenticateResult, error) {
			return application.AuthenticateResult{}, application.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.CreateSession(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
		t.Fatalf("expected AUTH_INVALID_CREDENTIALS, got %q", resp.ErrorCode)
	}
}

func TestAuthHandlerDeleteCurrentSession(t *testing.T) {
	var revoked string
	service := &stubAuthService{
		revokeFunc: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	handler := NewAuthHandler(service, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/current", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.DeleteCurrentSession(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if revoked != "token-1" {
		t.Fatalf("expected token-1 to be revoked, got %q", revoked)
	}
}
