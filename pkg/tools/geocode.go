package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
)

// GeocodeArgs defines the input parameters for geocoding an address
type GeocodeArgs struct {
	Address string `json:"address"`
}

func (a *GeocodeArgs) validate() error {
	var err error
	a.Address, err = requireString("address", a.Address)
	return err
}

// GeocodeTool returns a tool definition for geocoding addresses
func GeocodeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Convert address to coordinates"),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Address to geocode"),
		),
	}
	return mcp.NewTool("maps_geocode", append(opts, readOnly("Geocode address")...)...)
}

// HandleGeocode returns the best geocoding match, or nil when Google found none.
func HandleGeocode(ctx context.Context, client gmaps.Client, args *GeocodeArgs) (json.RawMessage, error) {
	return first(client.Geocode(ctx, args.Address))
}

// ReverseGeocodeArgs defines the input parameters for reverse geocoding
type ReverseGeocodeArgs struct {
	Coordinates
}

func (a *ReverseGeocodeArgs) validate() error {
	_, err := a.location("")
	return err
}

// ReverseGeocodeTool returns a tool definition for reverse geocoding
func ReverseGeocodeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Convert coordinates to address"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude in decimal degrees"),
			mcp.Min(-90),
			mcp.Max(90),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude in decimal degrees"),
			mcp.Min(-180),
			mcp.Max(180),
		),
	}
	return mcp.NewTool("maps_reverse_geocode", append(opts, readOnly("Reverse geocode coordinates")...)...)
}

// HandleReverseGeocode returns the best address for a coordinate pair.
func HandleReverseGeocode(ctx context.Context, client gmaps.Client, args *ReverseGeocodeArgs) (json.RawMessage, error) {
	loc, err := args.location("")
	if err != nil {
		return nil, err
	}
	return first(client.ReverseGeocode(ctx, loc.String()))
}
