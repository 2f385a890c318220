// Package gmaps provides the upstream Google Maps client used by the tools,
// together with the rate limiting, caching and tracing applied to every call.
package gmaps

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoAPIKey is reported when no Google Maps API key is configured.
var ErrNoAPIKey = errors.New("Google Maps API Key not configured")

// Travel modes accepted by the distance matrix and directions services.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// Modes lists every supported travel mode, in the order advertised to clients.
var Modes = []string{ModeDriving, ModeWalking, ModeBicycling, ModeTransit}

// DefaultMode is used when a caller does not specify a travel mode.
const DefaultMode = ModeDriving

// Operation names, used for logging, tracing and cache keys.
const (
	OpGeocode        = "geocode"
	OpReverseGeocode = "reverse_geocode"
	OpTextSearch     = "text_search"
	OpPlaceDetails   = "place_details"
	OpDistanceMatrix = "distance_matrix"
	OpElevation      = "elevation"
	OpDirections     = "directions"
)

// TextSearchParams holds the arguments of a places text search.
type TextSearchParams struct {
	Query string
	// Location is an optional "lat,lng" bias point.
	Location string
	// Radius is the bias radius in meters; zero means unset.
	Radius uint
}

// Client is the set of Google Maps operations exposed as tools.
// Coordinates are passed in the textual forms the web services use:
// "lat,lng" for a single point and "lat,lng|lat,lng" for a list.
//
// Results are Google's response bytes, untouched: the top-level field named
// on each method, or the whole body for DistanceMatrix. A field absent from
// the response is returned as JSON null.
type Client interface {
	// Geocode returns the "results" array.
	Geocode(ctx context.Context, address string) (json.RawMessage, error)
	// ReverseGeocode returns the "results" array.
	ReverseGeocode(ctx context.Context, latlng string) (json.RawMessage, error)
	// TextSearch returns the "results" array.
	TextSearch(ctx context.Context, params TextSearchParams) (json.RawMessage, error)
	// PlaceDetails returns the "result" object.
	PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error)
	// DistanceMatrix returns the whole response, status included.
	DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) (json.RawMessage, error)
	// Elevation returns the "results" array.
	Elevation(ctx context.Context, locations string) (json.RawMessage, error)
	// Directions returns the "routes" array.
	Directions(ctx context.Context, origin, destination, mode string) (json.RawMessage, error)
}
