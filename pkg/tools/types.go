package tools

import (
	"slices"
	"strings"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
)

// maxSearchRadius is the largest bias radius the Places API accepts, in meters.
const maxSearchRadius = 50000

// Coordinates is a latitude/longitude pair as received from callers. Both
// fields are pointers so an omitted component can be told apart from zero.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// location checks presence and range and converts to a geo.Location.
// field prefixes the name of any offending component.
func (c Coordinates) location(field string) (geo.Location, error) {
	if c.Latitude == nil {
		return geo.Location{}, missing(field + "latitude")
	}
	if c.Longitude == nil {
		return geo.Location{}, missing(field + "longitude")
	}
	loc := geo.Location{Latitude: *c.Latitude, Longitude: *c.Longitude}
	if err := loc.Validate(); err != nil {
		return geo.Location{}, invalid(strings.TrimSuffix(field, "."), "%v", err)
	}
	return loc, nil
}

// travelMode applies the default mode and rejects unknown ones.
func travelMode(mode string) (string, error) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return gmaps.DefaultMode, nil
	}
	if !slices.Contains(gmaps.Modes, mode) {
		return "", invalid("mode", "must be one of %s, got %q", strings.Join(gmaps.Modes, ", "), mode)
	}
	return mode, nil
}

// requireString trims s and reports it missing when empty.
func requireString(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", missing(field)
	}
	return s, nil
}

// requireStrings trims each element and rejects empty lists or elements.
func requireStrings(field string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, invalid(field, "must contain at least one entry")
	}
	out := make([]string, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, invalid(field, "entry %d is empty", i)
		}
		out[i] = v
	}
	return out, nil
}
