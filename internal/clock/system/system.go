// Package system provides a real clock implementation.
package system

import "time"

// Clock implements ecourts.Clock using time.Now in a fixed location.
// Cause lists are published against the court's local calendar, so the
// default is the host's local zone rather than UTC.
type Clock struct {
	loc *time.Location
}

// New creates a Clock reading the host's local time.
func New() *Clock {
	return &Clock{loc: time.Local}
}

// NewIn creates a Clock reporting times in loc.
func NewIn(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}
