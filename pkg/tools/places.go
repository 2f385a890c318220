package tools

import (
	"context"
	"encoding/json"
	"math"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchPlacesArgs defines the input parameters for a text place search
type SearchPlacesArgs struct {
	Query    string       `json:"query"`
	Location *Coordinates `json:"location,omitempty"`
	Radius   *float64     `json:"radius,omitempty"`
}

func (a *SearchPlacesArgs) validate() error {
	_, err := a.params()
	return err
}

// params validates the arguments and converts them to an upstream request.
func (a *SearchPlacesArgs) params() (gmaps.TextSearchParams, error) {
	query, err := requireString("query", a.Query)
	if err != nil {
		return gmaps.TextSearchParams{}, err
	}
	p := gmaps.TextSearchParams{Query: query}

	if a.Radius != nil {
		r := *a.Radius
		if math.IsNaN(r) || r <= 0 || r > maxSearchRadius {
			return p, invalid("radius", "must be greater than 0 and at most %d meters", maxSearchRadius)
		}
		p.Radius = uint(math.Ceil(r))
	}
	if a.Location != nil {
		loc, err := a.Location.location("location.")
		if err != nil {
			return p, err
		}
		if a.Radius == nil {
			return p, invalid("radius", "is required when location is set")
		}
		p.Location = loc.String()
	}
	return p, nil
}

// SearchPlacesTool returns a tool definition for searching places by text
func SearchPlacesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search for places using text query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free text search, e.g. \"coffee near Union Square\""),
		),
		mcp.WithObject("location",
			mcp.Description("Optional point to bias results towards; requires radius"),
			mcp.Properties(coordinateProperties),
		),
		mcp.WithNumber("radius",
			mcp.Description("Bias radius in meters"),
			mcp.Min(1),
			mcp.Max(maxSearchRadius),
		),
	}
	return mcp.NewTool("maps_search_places", append(opts, readOnly("Search places")...)...)
}

// HandleSearchPlaces returns every place matching the query.
func HandleSearchPlaces(ctx context.Context, client gmaps.Client, args *SearchPlacesArgs) (json.RawMessage, error) {
	p, err := args.params()
	if err != nil {
		return nil, err
	}
	return client.TextSearch(ctx, p)
}

// PlaceDetailsArgs defines the input parameters for place details
type PlaceDetailsArgs struct {
	PlaceID string `json:"place_id"`
}

func (a *PlaceDetailsArgs) validate() error {
	var err error
	a.PlaceID, err = requireString("place_id", a.PlaceID)
	return err
}

// PlaceDetailsTool returns a tool definition for looking up a single place
func PlaceDetailsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get detailed information about a place"),
		mcp.WithString("place_id",
			mcp.Required(),
			mcp.Description("Place ID as returned by maps_search_places"),
		),
	}
	return mcp.NewTool("maps_place_details", append(opts, readOnly("Place details")...)...)
}

// HandlePlaceDetails returns the details record for a place ID.
func HandlePlaceDetails(ctx context.Context, client gmaps.Client, args *PlaceDetailsArgs) (json.RawMessage, error) {
	return client.PlaceDetails(ctx, args.PlaceID)
}
