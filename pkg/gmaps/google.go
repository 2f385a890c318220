package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// Response fields extracted per operation. An empty field keeps the whole body.
const (
	fieldResults = "results"
	fieldResult  = "result"
	fieldRoutes  = "routes"
	fieldBody    = ""
)

// GoogleConfig configures the Google Maps backed client.
type GoogleConfig struct {
	APIKey string
	// BaseURL overrides the Google API host, e.g. for a proxy or tests.
	BaseURL string
	// HTTPClient is used for every request; NewHTTPClient is used when nil.
	HTTPClient *http.Client
}

// Google implements Client on top of googlemaps.github.io/maps. The library
// builds and signs requests and rejects error statuses; the payload handed
// back is the raw response body kept by a capturing transport.
type Google struct {
	client *maps.Client
}

// NewGoogle creates a Google Maps client. The library's built-in limiter is
// disabled because Service applies its own.
func NewGoogle(cfg GoogleConfig) (*Google, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(withCapture(httpClient)),
		maps.WithRateLimit(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Google{client: c}, nil
}

// Geocode converts an address into geocoding results.
func (g *Google) Geocode(ctx context.Context, address string) (json.RawMessage, error) {
	return fetch(ctx, fieldResults, func(ctx context.Context) error {
		_, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
		return err
	})
}

// ReverseGeocode converts a "lat,lng" point into geocoding results.
func (g *Google) ReverseGeocode(ctx context.Context, latlng string) (json.RawMessage, error) {
	ll, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, fieldResults, func(ctx context.Context) error {
		_, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: &ll})
		return err
	})
}

// TextSearch runs a places text search.
func (g *Google) TextSearch(ctx context.Context, params TextSearchParams) (json.RawMessage, error) {
	req := &maps.TextSearchRequest{
		Query:  params.Query,
		Radius: params.Radius,
	}
	if params.Location != "" {
		ll, err := parseLatLng(params.Location)
		if err != nil {
			return nil, err
		}
		req.Location = &ll
	}

	return fetch(ctx, fieldResults, func(ctx context.Context) error {
		_, err := g.client.TextSearch(ctx, req)
		return err
	})
}

// PlaceDetails fetches details for a place ID.
func (g *Google) PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	return fetch(ctx, fieldResult, func(ctx context.Context) error {
		_, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID})
		return err
	})
}

// DistanceMatrix computes travel distance and time between every origin and destination.
func (g *Google) DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) (json.RawMessage, error) {
	return fetch(ctx, fieldBody, func(ctx context.Context) error {
		_, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
			Origins:      origins,
			Destinations: destinations,
			Mode:         maps.Mode(mode),
		})
		return err
	})
}

// Elevation returns elevation samples for a "lat,lng|lat,lng" list.
func (g *Google) Elevation(ctx context.Context, locations string) (json.RawMessage, error) {
	var lls []maps.LatLng
	for _, l := range strings.Split(locations, "|") {
		ll, err := parseLatLng(l)
		if err != nil {
			return nil, err
		}
		lls = append(lls, ll)
	}
	return fetch(ctx, fieldResults, func(ctx context.Context) error {
		_, err := g.client.Elevation(ctx, &maps.ElevationRequest{Locations: lls})
		return err
	})
}

// Directions returns the routes between origin and destination.
func (g *Google) Directions(ctx context.Context, origin, destination, mode string) (json.RawMessage, error) {
	return fetch(ctx, fieldRoutes, func(ctx context.Context) error {
		_, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
			Origin:      origin,
			Destination: destination,
			Mode:        maps.Mode(mode),
		})
		return err
	})
}

// parseLatLng guards maps.ParseLatLng, which indexes the split result
// without checking its length.
func parseLatLng(s string) (maps.LatLng, error) {
	if strings.Count(s, ",") != 1 {
		return maps.LatLng{}, fmt.Errorf("invalid lat,lng value %q", s)
	}
	ll, err := maps.ParseLatLng(s)
	if err != nil {
		return maps.LatLng{}, fmt.Errorf("invalid lat,lng value %q: %w", s, err)
	}
	return ll, nil
}
