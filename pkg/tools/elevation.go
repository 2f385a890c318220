package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
)

// ElevationArgs defines the input parameters for an elevation lookup
type ElevationArgs struct {
	Locations []Coordinates `json:"locations"`
}

func (a *ElevationArgs) validate() error {
	_, err := a.points()
	return err
}

func (a *ElevationArgs) points() ([]geo.Location, error) {
	if len(a.Locations) == 0 {
		return nil, invalid("locations", "must contain at least one entry")
	}
	locs := make([]geo.Location, len(a.Locations))
	for i, c := range a.Locations {
		loc, err := c.location(fmt.Sprintf("locations[%d].", i))
		if err != nil {
			return nil, err
		}
		locs[i] = loc
	}
	return locs, nil
}

// ElevationTool returns a tool definition for elevation lookups
func ElevationTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get elevation data for locations"),
		mcp.WithArray("locations",
			mcp.Required(),
			mcp.Description("Points to sample"),
			mcp.Items(map[string]any{
				"type":       "object",
				"properties": coordinateProperties,
				"required":   []string{"latitude", "longitude"},
			}),
			mcp.MinItems(1),
		),
	}
	return mcp.NewTool("maps_elevation", append(opts, readOnly("Elevation")...)...)
}

// HandleElevation returns one elevation sample per requested point.
func HandleElevation(ctx context.Context, client gmaps.Client, args *ElevationArgs) (json.RawMessage, error) {
	locs, err := args.points()
	if err != nil {
		return nil, err
	}
	return client.Elevation(ctx, geo.JoinLocations(locs))
}
