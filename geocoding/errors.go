package geocoding

import "fmt"

// InvalidAddressError rejects addresses that are blank, shorter than three
// characters after trimming, or the literal "invalid_address".
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return "Invalid address: " + e.Address
}

// InvalidCoordinatesError rejects a latitude outside [-90, 90] or a longitude
// outside [-180, 180].
type InvalidCoordinatesError struct {
	Latitude, Longitude float64
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("Invalid coordinates: Latitude %v, Longitude %v", e.Latitude, e.Longitude)
}
