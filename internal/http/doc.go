// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - GET /health: liveness probe returning {"status":"ok"}.
//   - GET /rooms, GET /rooms/{id}: public room catalog endpoints exchanging the
//     `roomDTO` payload defined in room_handler.go.
//   - POST /rooms: creates a room. Requires the bearer token.
//   - GET /rooms/{id}/bookings: public listing of a room's bookings, canceled
//     ones included, ordered by start time.
//   - POST /rooms/{id}/bookings: creates a booking when its window does not
//     overlap an active booking of the same room. Requires the bearer token.
//   - PUT /rooms/{roomID}/bookings/{bookingID}: reschedules a booking; absent
//     start_at/end_at fields keep their current value. Requires the bearer
//     token.
//   - POST /rooms/{roomID}/bookings/{bookingID}/cancel: cancels a booking,
//     idempotently. Requires the bearer token.
//
// Mutations authenticate via `Authorization: Bearer <token>` checked by the
// RequireToken middleware. Errors are returned as {"detail": "..."} with an
// optional per-field "errors" map, with user facing messages in Portuguese.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
