package common

import "time"

// Clock abstracts the current time so token-expiry logic can be tested
// deterministically. Implementations must return UTC instants.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time { return time.Now().UTC() }
