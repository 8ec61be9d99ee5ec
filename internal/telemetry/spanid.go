package telemetry

import "github.com/google/uuid"

// NewSpanID returns a UUIDv7 correlation id. NewContext stores one per
// Context at construction; the core's log calls do not include it.
//
// Falls back to a random UUIDv4 in the vanishingly unlikely case the
// system clock/entropy source used by UUIDv7 generation fails.
func NewSpanID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
