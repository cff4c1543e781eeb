// Package geocoding resolves addresses to coordinates and back through a
// provider.Geocoder, caching results in the registry's "geocoding" and
// "reverse-geocoding" caches.
package geocoding

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/unkn0wn-root/geocache"
	"github.com/unkn0wn-root/geocache/provider"
)

const minAddressLength = 3

// Coordinate is a WGS84 position. It is comparable and keys the reverse cache.
type Coordinate struct {
	Latitude  float64 `json:"latitude" cbor:"latitude" msgpack:"latitude"`
	Longitude float64 `json:"longitude" cbor:"longitude" msgpack:"longitude"`
}

type Service struct {
	forward *geocache.Typed[string, Coordinate]
	reverse *geocache.Typed[Coordinate, string]
	gc      provider.Geocoder
	log     geocache.Logger
}

// NewService binds the service to the registry's geocoding caches. It fails
// with an error wrapping geocache.ErrUnknownCache if either is missing.
func NewService(reg *geocache.Registry, gc provider.Geocoder, log geocache.Logger) (*Service, error) {
	fwd, err := geocache.Lookup[string, Coordinate](reg, geocache.CacheGeocoding)
	if err != nil {
		return nil, err
	}
	rev, err := geocache.Lookup[Coordinate, string](reg, geocache.CacheReverseGeocoding)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = geocache.NopLogger{}
	}
	return &Service{forward: fwd, reverse: rev, gc: gc, log: log}, nil
}

// GetCoordinates returns the coordinates of address. Results are cached by
// the address as given; failures are not cached.
func (s *Service) GetCoordinates(ctx context.Context, address string) (Coordinate, error) {
	if err := validateAddress(address); err != nil {
		s.log.Warn("rejected address", geocache.Fields{"address": address})
		return Coordinate{}, err
	}

	return s.forward.GetOrLoad(ctx, address, func(ctx context.Context) (Coordinate, error) {
		p, err := s.gc.Forward(ctx, address)
		if err != nil {
			return Coordinate{}, err
		}
		return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}, nil
	})
}

// GetAddress returns the label of the place at latitude, longitude.
func (s *Service) GetAddress(ctx context.Context, latitude, longitude float64) (string, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		s.log.Warn("rejected coordinates", geocache.Fields{"latitude": latitude, "longitude": longitude})
		return "", err
	}

	key := Coordinate{Latitude: latitude, Longitude: longitude}
	return s.reverse.GetOrLoad(ctx, key, func(ctx context.Context) (string, error) {
		p, err := s.gc.Reverse(ctx, latitude, longitude)
		if err != nil {
			return "", err
		}
		return p.Label, nil
	})
}

func validateAddress(address string) error {
	if utf8.RuneCountInString(strings.TrimSpace(address)) < minAddressLength || strings.EqualFold(address, "invalid_address") {
		return &InvalidAddressError{Address: address}
	}
	return nil
}

// NaN fails both range checks.
func validateCoordinates(latitude, longitude float64) error {
	if !(latitude >= -90 && latitude <= 90) || !(longitude >= -180 && longitude <= 180) {
		return &InvalidCoordinatesError{Latitude: latitude, Longitude: longitude}
	}
	return nil
}
