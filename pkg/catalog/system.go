package catalog

import (
	"time"

	"github.com/google/uuid"
)

// System supplies the current time and new identifiers.
type System interface {
	Now() time.Time
	NewID() uuid.UUID
}

// RealSystem uses the wall clock and random UUIDs.
type RealSystem struct{}

// Now returns the current UTC time truncated to microseconds, the precision
// every store keeps.
func (RealSystem) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (RealSystem) NewID() uuid.UUID {
	return uuid.New()
}
