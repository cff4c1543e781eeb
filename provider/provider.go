// Package provider defines the upstream geocoding abstraction used by the
// geocoding service.
//
// Implementations must be safe for concurrent use. A lookup that reaches the
// upstream but finds nothing returns ErrNoResult; any other failure (transport,
// unexpected status, undecodable body, rate limit wait aborted) is reported as
// an *Error so callers can tell "no such place" from "upstream unavailable".
package provider

import (
	"context"
	"errors"
)

// Place is the first match returned by an upstream lookup.
type Place struct {
	Latitude  float64
	Longitude float64
	Label     string
}

// Geocoder resolves addresses to places and back.
type Geocoder interface {
	Forward(ctx context.Context, address string) (Place, error)
	Reverse(ctx context.Context, latitude, longitude float64) (Place, error)
}

// ErrNoResult is returned when the upstream answered but had no match.
var ErrNoResult = errors.New("provider: no result")

const (
	OpForward = "forward"
	OpReverse = "reverse"
)

// Error reports an upstream failure for Op ("forward" or "reverse").
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + " geocoding failed"
	}
	return e.Op + " geocoding failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
