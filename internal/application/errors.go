package application

import "errors"

var (
	// ErrUnauthorized is returned when the presented credential does not
	// authorize the operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("application: room not found")
	// ErrBookingNotFound is returned when the referenced booking does not
	// exist or belongs to a different room.
	ErrBookingNotFound = errors.New("application: booking not found")
	// ErrAlreadyExists is returned when a room name collides with an existing
	// room.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrOverlap is returned when the requested window overlaps an active
	// booking on the same room. The caller may retry with a different window;
	// the service never resolves the conflict on its own.
	ErrOverlap = errors.New("application: overlapping booking")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
