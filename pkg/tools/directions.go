package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
)

// DirectionsArgs defines the input parameters for a directions request
type DirectionsArgs struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode,omitempty"`
}

func (a *DirectionsArgs) validate() error {
	var err error
	if a.Origin, err = requireString("origin", a.Origin); err != nil {
		return err
	}
	if a.Destination, err = requireString("destination", a.Destination); err != nil {
		return err
	}
	a.Mode, err = travelMode(a.Mode)
	return err
}

// DirectionsTool returns a tool definition for turn-by-turn directions
func DirectionsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get directions between points"),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Starting address or \"lat,lng\""),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination address or \"lat,lng\""),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode, defaults to driving"),
			mcp.Enum(gmaps.Modes...),
		),
	}
	return mcp.NewTool("maps_directions", append(opts, readOnly("Directions")...)...)
}

// HandleDirections returns the first suggested route, or nil if there is none.
func HandleDirections(ctx context.Context, client gmaps.Client, args *DirectionsArgs) (json.RawMessage, error) {
	return first(client.Directions(ctx, args.Origin, args.Destination, args.Mode))
}
