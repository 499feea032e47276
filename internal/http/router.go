package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig wires handlers and middleware into the API router.
type RouterConfig struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Rooms   *RoomHandler
	Booking *BookingHandler

	// SessionAuth guards every route except login. Middleware entries wrap
	// the whole router, outermost first.
	SessionAuth func(http.Handler) http.Handler
	Middleware  []func(http.Handler) http.Handler
}

// NewRouter builds the /api route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	root := mux.NewRouter()
	api := root.PathPrefix("/api").Subrouter()

	if cfg.Auth != nil {
		// Login stays outside the session guard.
		api.HandleFunc("/sessions", cfg.Auth.CreateSession).Methods(http.MethodPost)
	}

	authed := api.NewRoute().Subrouter()
	if cfg.SessionAuth != nil {
		authed.Use(mux.MiddlewareFunc(cfg.SessionAuth))
	}

	if cfg.Auth != nil {
		authed.HandleFunc("/sessions/current", cfg.Auth.DeleteCurrentSession).Methods(http.MethodDelete)
	}

	if cfg.Rooms != nil {
		authed.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		authed.HandleFunc("/rooms", cfg.Rooms.Create).Methods(http.MethodPost)
		authed.HandleFunc("/rooms/check-availability", cfg.Rooms.CheckAvailability).Methods(http.MethodPost)
		authed.HandleFunc("/rooms/{id}", cfg.Rooms.Update).Methods(http.MethodPut)
		authed.HandleFunc("/rooms/{id}", cfg.Rooms.Delete).Methods(http.MethodDelete)
	}

	if cfg.Booking != nil {
		authed.HandleFunc("/bookings", cfg.Booking.List).Methods(http.MethodGet)
		authed.HandleFunc("/bookings", cfg.Booking.Create).Methods(http.MethodPost)
		authed.HandleFunc("/bookings/{id}", cfg.Booking.Get).Methods(http.MethodGet)
		authed.HandleFunc("/bookings/{id}", cfg.Booking.Delete).Methods(http.MethodDelete)
		authed.HandleFunc("/bookings/{id}/minutes", cfg.Booking.ListMinutes).Methods(http.MethodGet)
		authed.HandleFunc("/bookings/{id}/minutes", cfg.Booking.CreateMinutes).Methods(http.MethodPost)
		authed.HandleFunc("/minutes/{id}/review", cfg.Booking.ReviewMinutes).Methods(http.MethodPut)
	}

	if cfg.Users != nil {
		authed.HandleFunc("/users", cfg.Users.List).Methods(http.MethodGet)
		authed.HandleFunc("/users", cfg.Users.Create).Methods(http.MethodPost)
		authed.HandleFunc("/users/{id}", cfg.Users.Update).Methods(http.MethodPut)
		authed.HandleFunc("/users/{id}", cfg.Users.Delete).Methods(http.MethodDelete)
	}

	var handler http.Handler = root
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
