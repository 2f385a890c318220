// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMapsPrompts registers the Google Maps usage prompts with the MCP server
func RegisterMapsPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("maps_usage",
		mcp.WithPromptDescription("Instructions for properly using the Google Maps tools"),
	), UsagePromptHandler)

	s.AddPrompt(mcp.NewPrompt("maps_geocode_examples",
		mcp.WithPromptDescription("Examples of well formed geocoding and reverse geocoding calls"),
	), GeocodeExamplesHandler)

	s.AddPrompt(mcp.NewPrompt("maps_routing_examples",
		mcp.WithPromptDescription("Examples of distance matrix and directions calls"),
	), RoutingExamplesHandler)
}

func assistantPrompt(title, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(title, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleAssistant, mcp.NewTextContent(text)),
	})
}

// UsagePromptHandler returns the main prompt for the Google Maps tools
func UsagePromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to Google Maps tools for geocoding, place search, distances, elevation and directions.
When using these tools:

1. Use maps_geocode to turn an address into coordinates before calling tools that need latitude and longitude
2. Coordinates are decimal degrees; latitude is between -90 and 90, longitude between -180 and 180
3. maps_search_places accepts an optional location, which must be paired with a radius in meters (at most 50000)
4. Use the place_id from maps_search_places results with maps_place_details
5. maps_distance_matrix and maps_directions accept addresses or "lat,lng" strings; mode is one of driving, walking, bicycling or transit and defaults to driving

ERROR HANDLING GUIDELINES:
1. Errors starting with "invalid arguments" name the field to fix; correct it and retry
2. Errors starting with "maps: REQUEST_DENIED" or "maps: OVER_QUERY_LIMIT" come from Google and will not succeed on an immediate retry; report them to the user
3. A result of null or [] means Google found no match; rephrase the address with city and country`

	return assistantPrompt("Google Maps Tool Usage Guidelines", systemPrompt), nil
}

// GeocodeExamplesHandler returns examples for maps_geocode and maps_reverse_geocode
func GeocodeExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE GEOCODING USAGE:

User: "Where is the Googleplex?"
AI: *uses maps_geocode with address "1600 Amphitheatre Parkway, Mountain View, CA"*

User: "What's at 48.8584, 2.2945?"
AI: *uses maps_reverse_geocode with latitude: 48.8584, longitude: 2.2945*

User: "What's located at 40°41'40.2"N 74°07'00.0"W?"
AI: *converts from DMS to decimal first (40.69450, -74.11667), then uses maps_reverse_geocode*`

	return assistantPrompt("Geocoding Examples", examplesPrompt), nil
}

// RoutingExamplesHandler returns examples for maps_distance_matrix and maps_directions
func RoutingExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE ROUTING USAGE:

User: "How long does it take to walk from the Louvre to Notre-Dame?"
AI: *uses maps_directions with origin "Louvre Museum, Paris", destination "Notre-Dame, Paris", mode "walking"*

User: "Compare drive times from my office to both airports"
AI: *uses maps_distance_matrix with origins ["500 Howard St, San Francisco"], destinations ["SFO", "OAK"]*

User: "Is the Golden Gate Bridge higher than Twin Peaks?"
AI: *geocodes both, then uses maps_elevation with both coordinate pairs in one call*`

	return assistantPrompt("Routing Examples", examplesPrompt), nil
}
