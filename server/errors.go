package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/unkn0wn-root/geocache/geocoding"
	"github.com/unkn0wn-root/geocache/provider"
)

// paramError is a missing or malformed query parameter.
type paramError struct {
	name   string
	reason string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("Parameter '%s' %s", e.name, e.reason)
}

// classify maps an error to its HTTP status and client-facing message.
func classify(err error) (int, string) {
	var (
		addrErr  *geocoding.InvalidAddressError
		coordErr *geocoding.InvalidCoordinatesError
		pErr     *paramError
		upErr    *provider.Error
	)
	switch {
	case errors.As(err, &addrErr), errors.As(err, &coordErr), errors.As(err, &pErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, provider.ErrNoResult):
		return http.StatusNotFound, "No matching location found"
	case errors.As(err, &upErr):
		return http.StatusServiceUnavailable, "Geocoding API error: " + upErr.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
