package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry holds all MCP tool registrations for the Google Maps service.
// The same definitions serve tools/list, direct dispatch and MCP server
// registration.
type Registry struct {
	logger *slog.Logger
	client gmaps.Client
	defs   []ToolDefinition
	byName map[string]int
}

// runFunc decodes raw arguments, validates them and calls upstream.
type runFunc func(ctx context.Context, client gmaps.Client, raw json.RawMessage) (json.RawMessage, error)

// ToolDefinition represents a Google Maps MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	run         runFunc
}

// arguments is implemented by every per-tool argument struct.
type arguments interface {
	validate() error
}

// define binds a tool descriptor to a handler over its typed arguments.
func define[A any, PA interface {
	*A
	arguments
}](tool mcp.Tool, handle func(ctx context.Context, client gmaps.Client, args *A) (json.RawMessage, error)) ToolDefinition {
	return ToolDefinition{
		Name:        tool.Name,
		Description: tool.Description,
		Tool:        tool,
		run: func(ctx context.Context, client gmaps.Client, raw json.RawMessage) (json.RawMessage, error) {
			var args A
			if err := decodeArguments(raw, &args); err != nil {
				return nil, err
			}
			if err := PA(&args).validate(); err != nil {
				return nil, err
			}
			return handle(ctx, client, &args)
		},
	}
}

// NewRegistry creates a new MCP tool registry calling client for every tool.
// A nil client makes every valid call fail with gmaps.ErrNoAPIKey.
func NewRegistry(client gmaps.Client, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		logger: logger,
		client: client,
		defs:   GetToolDefinitions(),
	}
	r.byName = make(map[string]int, len(r.defs))
	for i, def := range r.defs {
		r.byName[def.Name] = i
	}
	return r
}

// GetToolDefinitions returns all Google Maps MCP tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Geocoding Tools
		define[GeocodeArgs](GeocodeTool(), HandleGeocode),
		define[ReverseGeocodeArgs](ReverseGeocodeTool(), HandleReverseGeocode),

		// Place Tools
		define[SearchPlacesArgs](SearchPlacesTool(), HandleSearchPlaces),
		define[PlaceDetailsArgs](PlaceDetailsTool(), HandlePlaceDetails),

		// Distance and Elevation Tools
		define[DistanceMatrixArgs](DistanceMatrixTool(), HandleDistanceMatrix),
		define[ElevationArgs](ElevationTool(), HandleElevation),

		// Routing Tools
		define[DirectionsArgs](DirectionsTool(), HandleDirections),
	}
}

// Tools returns the tool descriptors in registration order.
func (r *Registry) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, len(r.defs))
	for i, def := range r.defs {
		tools[i] = def.Tool
	}
	return tools
}

// Call invokes the named tool with raw JSON arguments. Errors are one of
// *UnknownToolError, *ValidationError or *UpstreamError.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	logger := r.logger.With("tool", name)

	client := r.client
	if client == nil {
		client = unconfigured{}
	}
	out, err := r.defs[idx].run(ctx, client, args)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Tool = name
			logger.Debug("rejected tool arguments", "error", verr)
			return nil, verr
		}
		logger.Error("upstream call failed", "error", err)
		return nil, &UpstreamError{Tool: name, Err: err}
	}

	result, err := TextResult(out)
	if err != nil {
		logger.Error("malformed upstream payload", "error", err)
		return nil, &UpstreamError{Tool: name, Err: err}
	}
	return result, nil
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.defs {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, r.handler(def.Name))
	}
}

// handler adapts Call to the MCP server. Failures are reported inside the
// result with isError set so the model can see and correct them.
func (r *Registry) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return ErrorResponse("Failed to read tool arguments"), nil
		}
		result, err := r.Call(ctx, name, raw)
		if err != nil {
			return ErrorResponse(err.Error()), nil
		}
		return result, nil
	}
}

// unconfigured stands in for the upstream client when no API key is set.
type unconfigured struct{}

func (unconfigured) Geocode(context.Context, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) ReverseGeocode(context.Context, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) TextSearch(context.Context, gmaps.TextSearchParams) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) PlaceDetails(context.Context, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) DistanceMatrix(context.Context, []string, []string, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) Elevation(context.Context, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}

func (unconfigured) Directions(context.Context, string, string, string) (json.RawMessage, error) {
	return nil, gmaps.ErrNoAPIKey
}
