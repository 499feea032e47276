// Package http exposes the booking API over JSON/HTTP.
//
// Routes:
//
//	POST   /api/sessions                   sign in, issues a session token
//	DELETE /api/sessions/current           sign out
//	GET    /api/rooms                      list rooms
//	POST   /api/rooms                      create a room (admin)
//	POST   /api/rooms/check-availability   list rooms free for a window
//	PUT    /api/rooms/{id}                 update a room (admin)
//	DELETE /api/rooms/{id}                 delete a room (admin)
//	GET    /api/bookings                   list bookings (date, room_id, mine filters)
//	POST   /api/bookings                   create a booking
//	GET    /api/bookings/{id}              fetch one booking
//	DELETE /api/bookings/{id}              cancel a booking
//	GET    /api/bookings/{id}/minutes      list minutes for a booking
//	POST   /api/bookings/{id}/minutes      record minutes
//	PUT    /api/minutes/{id}/review        mark minutes reviewed (admin)
//	GET    /api/users                      list accounts (admin)
//	POST   /api/users                      create an account (admin)
//	PUT    /api/users/{id}                 update an account (admin)
//	DELETE /api/users/{id}                 delete an account (admin)
//
// Every route except POST /api/sessions requires a valid session token,
// supplied either as a Bearer Authorization header or the session_token
// cookie.
package http
