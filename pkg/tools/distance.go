package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
)

// DistanceMatrixArgs defines the input parameters for a distance matrix
type DistanceMatrixArgs struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
	Mode         string   `json:"mode,omitempty"`
}

func (a *DistanceMatrixArgs) validate() error {
	var err error
	if a.Origins, err = requireStrings("origins", a.Origins); err != nil {
		return err
	}
	if a.Destinations, err = requireStrings("destinations", a.Destinations); err != nil {
		return err
	}
	a.Mode, err = travelMode(a.Mode)
	return err
}

// DistanceMatrixTool returns a tool definition for travel distances and times
func DistanceMatrixTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Calculate distances and times between points"),
		mcp.WithArray("origins",
			mcp.Required(),
			mcp.Description("Origin addresses or \"lat,lng\" strings"),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.MinItems(1),
		),
		mcp.WithArray("destinations",
			mcp.Required(),
			mcp.Description("Destination addresses or \"lat,lng\" strings"),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.MinItems(1),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode, defaults to driving"),
			mcp.Enum(gmaps.Modes...),
		),
	}
	return mcp.NewTool("maps_distance_matrix", append(opts, readOnly("Distance matrix")...)...)
}

// HandleDistanceMatrix returns the full matrix response.
func HandleDistanceMatrix(ctx context.Context, client gmaps.Client, args *DistanceMatrixArgs) (json.RawMessage, error) {
	return client.DistanceMatrix(ctx, args.Origins, args.Destinations, args.Mode)
}
