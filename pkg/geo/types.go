// Package geo provides the coordinate type shared by the tool arguments and
// the upstream client, along with the textual forms the Google Maps web
// services expect.
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Location represents a geographic coordinate (latitude and longitude)
// with standardized JSON field names.
//
// Example:
//
//	loc := geo.Location{Latitude: 37.4224, Longitude: -122.0842}
//	loc.String() // "37.4224,-122.0842"
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String returns the location in "lat,lng" form using the shortest decimal
// representation of each component.
func (l Location) String() string {
	return formatCoord(l.Latitude) + "," + formatCoord(l.Longitude)
}

// Validate reports whether the location lies within WGS-84 bounds.
func (l Location) Validate() error {
	return ValidateCoords(l.Latitude, l.Longitude)
}

// ValidateCoords checks that latitude is within [-90, 90] and longitude
// within [-180, 180].
func ValidateCoords(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", lon)
	}
	return nil
}

// JoinLocations renders locations as "lat,lng|lat,lng|...".
func JoinLocations(locs []Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, "|")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
