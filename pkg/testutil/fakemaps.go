package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
)

// MapsCall records one invocation of a FakeMaps method.
type MapsCall struct {
	Op   string
	Args []any
}

// FakeMaps is a gmaps.Client that records every call and returns canned raw
// payloads. Unset list payloads default to [] and object payloads to {}.
// Err, when set, is returned by every method.
type FakeMaps struct {
	mu    sync.Mutex
	calls []MapsCall

	Err            error
	GeocodeResults json.RawMessage
	PlacesResults  json.RawMessage
	Details        json.RawMessage
	Matrix         json.RawMessage
	Elevations     json.RawMessage
	Routes         json.RawMessage
}

var _ gmaps.Client = (*FakeMaps)(nil)

func (f *FakeMaps) record(op string, payload json.RawMessage, fallback string, args ...any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, MapsCall{Op: op, Args: args})
	if f.Err != nil {
		return nil, f.Err
	}
	if payload == nil {
		return json.RawMessage(fallback), nil
	}
	return payload, nil
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeMaps) Calls() []MapsCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MapsCall(nil), f.calls...)
}

// LastCall returns the most recent call, or false if there was none.
func (f *FakeMaps) LastCall() (MapsCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return MapsCall{}, false
	}
	return f.calls[len(f.calls)-1], true
}

func (f *FakeMaps) Geocode(_ context.Context, address string) (json.RawMessage, error) {
	return f.record(gmaps.OpGeocode, f.GeocodeResults, "[]", address)
}

func (f *FakeMaps) ReverseGeocode(_ context.Context, latlng string) (json.RawMessage, error) {
	return f.record(gmaps.OpReverseGeocode, f.GeocodeResults, "[]", latlng)
}

func (f *FakeMaps) TextSearch(_ context.Context, p gmaps.TextSearchParams) (json.RawMessage, error) {
	return f.record(gmaps.OpTextSearch, f.PlacesResults, "[]", p)
}

func (f *FakeMaps) PlaceDetails(_ context.Context, placeID string) (json.RawMessage, error) {
	return f.record(gmaps.OpPlaceDetails, f.Details, "{}", placeID)
}

func (f *FakeMaps) DistanceMatrix(_ context.Context, origins, destinations []string, mode string) (json.RawMessage, error) {
	return f.record(gmaps.OpDistanceMatrix, f.Matrix, "{}", origins, destinations, mode)
}

func (f *FakeMaps) Elevation(_ context.Context, locations string) (json.RawMessage, error) {
	return f.record(gmaps.OpElevation, f.Elevations, "[]", locations)
}

func (f *FakeMaps) Directions(_ context.Context, origin, destination, mode string) (json.RawMessage, error) {
	return f.record(gmaps.OpDirections, f.Routes, "[]", origin, destination, mode)
}
