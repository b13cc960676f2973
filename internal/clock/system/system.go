// Package system is the wall-clock implementation of crawler.Clock. All
// persisted timestamps flow through it, so records carry UTC regardless
// of host timezone.
package system

import "time"

// Clock reads the real time.
type Clock struct{}

// New creates a Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
