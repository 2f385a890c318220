package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newTestRegistry(fake *testutil.FakeMaps) *Registry {
	return NewRegistry(fake, testutil.DiscardLogger())
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content element, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func indented(t *testing.T, raw string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		t.Fatalf("indent %s: %v", raw, err)
	}
	return buf.String()
}

func TestToolsList(t *testing.T) {
	r := newTestRegistry(&testutil.FakeMaps{})
	tools := r.Tools()

	want := []string{
		"maps_geocode",
		"maps_reverse_geocode",
		"maps_search_places",
		"maps_place_details",
		"maps_distance_matrix",
		"maps_elevation",
		"maps_directions",
	}
	if len(tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(tools))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: expected %s, got %s", i, want[i], tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("%s has empty description", tool.Name)
		}
		if tool.InputSchema.Type != "object" || len(tool.InputSchema.Properties) == 0 {
			t.Errorf("%s has empty input schema", tool.Name)
		}
		if tool.Annotations.ReadOnlyHint == nil || !*tool.Annotations.ReadOnlyHint {
			t.Errorf("%s is not marked read-only", tool.Name)
		}
	}
}

func TestToolRequiredFields(t *testing.T) {
	required := map[string][]string{
		"maps_geocode":         {"address"},
		"maps_reverse_geocode": {"latitude", "longitude"},
		"maps_search_places":   {"query"},
		"maps_place_details":   {"place_id"},
		"maps_distance_matrix": {"origins", "destinations"},
		"maps_elevation":       {"locations"},
		"maps_directions":      {"origin", "destination"},
	}
	for _, tool := range newTestRegistry(&testutil.FakeMaps{}).Tools() {
		if got := tool.InputSchema.Required; !reflect.DeepEqual(got, required[tool.Name]) {
			t.Errorf("%s: expected required %v, got %v", tool.Name, required[tool.Name], got)
		}
	}
}

func TestCallGeocode(t *testing.T) {
	firstResult := `{"formatted_address":"1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA","geometry":{"location":{"lat":37.4224764,"lng":-122.0842499}},"place_id":"ChIJ2eUgeAK6j4ARbn5u_wAGqWA"}`
	fake := &testutil.FakeMaps{GeocodeResults: json.RawMessage(`[` + firstResult + `,{"place_id":"other"}]`)}
	r := newTestRegistry(fake)

	res, err := r.Call(context.Background(), "maps_geocode",
		json.RawMessage(`{"address":"1600 Amphitheatre Parkway"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 upstream call, got %d", len(calls))
	}
	if calls[0].Op != gmaps.OpGeocode || calls[0].Args[0] != "1600 Amphitheatre Parkway" {
		t.Errorf("unexpected upstream call %+v", calls[0])
	}

	if got, want := resultText(t, res), indented(t, firstResult); got != want {
		t.Errorf("expected first result\n%s\ngot\n%s", want, got)
	}
}

func TestCallEmptyResultIsNull(t *testing.T) {
	tests := []struct {
		tool string
		args string
		fake *testutil.FakeMaps
	}{
		{"maps_geocode", `{"address":"nowhere"}`, &testutil.FakeMaps{}},
		{"maps_reverse_geocode", `{"latitude":0,"longitude":0}`, &testutil.FakeMaps{}},
		{"maps_directions", `{"origin":"a","destination":"b"}`, &testutil.FakeMaps{}},
		{"maps_directions", `{"origin":"a","destination":"b"}`, &testutil.FakeMaps{Routes: json.RawMessage("null")}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			r := newTestRegistry(tt.fake)
			res, err := r.Call(context.Background(), tt.tool, json.RawMessage(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := resultText(t, res); got != "null" {
				t.Errorf("expected null, got %s", got)
			}
		})
	}
}

func TestCallForwardsArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
		op   string
		want []any
	}{
		{
			name: "reverse geocode",
			tool: "maps_reverse_geocode",
			args: `{"latitude":37.42,"longitude":-122.08}`,
			op:   gmaps.OpReverseGeocode,
			want: []any{"37.42,-122.08"},
		},
		{
			name: "search without location",
			tool: "maps_search_places",
			args: `{"query":"coffee"}`,
			op:   gmaps.OpTextSearch,
			want: []any{gmaps.TextSearchParams{Query: "coffee"}},
		},
		{
			name: "search with location",
			tool: "maps_search_places",
			args: `{"query":"coffee","location":{"latitude":1.5,"longitude":2},"radius":500}`,
			op:   gmaps.OpTextSearch,
			want: []any{gmaps.TextSearchParams{Query: "coffee", Location: "1.5,2", Radius: 500}},
		},
		{
			name: "place details",
			tool: "maps_place_details",
			args: `{"place_id":"abc"}`,
			op:   gmaps.OpPlaceDetails,
			want: []any{"abc"},
		},
		{
			name: "distance matrix default mode",
			tool: "maps_distance_matrix",
			args: `{"origins":["A"],"destinations":["B","C"]}`,
			op:   gmaps.OpDistanceMatrix,
			want: []any{[]string{"A"}, []string{"B", "C"}, "driving"},
		},
		{
			name: "distance matrix walking",
			tool: "maps_distance_matrix",
			args: `{"origins":["A"],"destinations":["B"],"mode":"walking"}`,
			op:   gmaps.OpDistanceMatrix,
			want: []any{[]string{"A"}, []string{"B"}, "walking"},
		},
		{
			name: "elevation",
			tool: "maps_elevation",
			args: `{"locations":[{"latitude":1,"longitude":2},{"latitude":3,"longitude":4}]}`,
			op:   gmaps.OpElevation,
			want: []any{"1,2|3,4"},
		},
		{
			name: "directions default mode",
			tool: "maps_directions",
			args: `{"origin":"A","destination":"B"}`,
			op:   gmaps.OpDirections,
			want: []any{"A", "B", "driving"},
		},
		{
			name: "directions transit",
			tool: "maps_directions",
			args: `{"origin":"A","destination":"B","mode":"transit"}`,
			op:   gmaps.OpDirections,
			want: []any{"A", "B", "transit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &testutil.FakeMaps{}
			r := newTestRegistry(fake)
			if _, err := r.Call(context.Background(), tt.tool, json.RawMessage(tt.args)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			call, ok := fake.LastCall()
			if !ok {
				t.Fatal("upstream was not called")
			}
			if call.Op != tt.op {
				t.Errorf("expected op %s, got %s", tt.op, call.Op)
			}
			if !reflect.DeepEqual(call.Args, tt.want) {
				t.Errorf("expected args %#v, got %#v", tt.want, call.Args)
			}
		})
	}
}

func TestCallUnknownTool(t *testing.T) {
	fake := &testutil.FakeMaps{}
	r := newTestRegistry(fake)

	_, err := r.Call(context.Background(), "maps_teleport", json.RawMessage(`{}`))
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownToolError, got %v", err)
	}
	if err.Error() != "Unknown tool: maps_teleport" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsClientError(err) {
		t.Error("unknown tool should be a client error")
	}
	if len(fake.Calls()) != 0 {
		t.Error("upstream should not be called")
	}
}

func TestCallValidation(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		args  string
		field string
	}{
		{"malformed json", "maps_geocode", `{"address":`, ""},
		{"wrong type", "maps_geocode", `{"address":12}`, ""},
		{"missing address", "maps_geocode", `{}`, "address"},
		{"blank address", "maps_geocode", `{"address":"  "}`, "address"},
		{"null arguments", "maps_geocode", `null`, "address"},
		{"missing longitude", "maps_reverse_geocode", `{"latitude":1}`, "longitude"},
		{"latitude out of range", "maps_reverse_geocode", `{"latitude":91,"longitude":0}`, ""},
		{"longitude out of range", "maps_reverse_geocode", `{"latitude":0,"longitude":-181}`, ""},
		{"location without radius", "maps_search_places", `{"query":"x","location":{"latitude":1,"longitude":2}}`, "radius"},
		{"zero radius", "maps_search_places", `{"query":"x","radius":0}`, "radius"},
		{"radius too large", "maps_search_places", `{"query":"x","radius":50001}`, "radius"},
		{"partial location", "maps_search_places", `{"query":"x","location":{"latitude":1},"radius":5}`, "location.longitude"},
		{"missing place id", "maps_place_details", `{}`, "place_id"},
		{"empty origins", "maps_distance_matrix", `{"origins":[],"destinations":["B"]}`, "origins"},
		{"blank destination", "maps_distance_matrix", `{"origins":["A"],"destinations":[""]}`, "destinations"},
		{"bad mode", "maps_distance_matrix", `{"origins":["A"],"destinations":["B"],"mode":"flying"}`, "mode"},
		{"no locations", "maps_elevation", `{"locations":[]}`, "locations"},
		{"bad location", "maps_elevation", `{"locations":[{"latitude":1,"longitude":2},{"latitude":100,"longitude":0}]}`, "locations[1]"},
		{"missing destination", "maps_directions", `{"origin":"A"}`, "destination"},
		{"bad directions mode", "maps_directions", `{"origin":"A","destination":"B","mode":"sailing"}`, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &testutil.FakeMaps{}
			r := newTestRegistry(fake)
			_, err := r.Call(context.Background(), tt.tool, json.RawMessage(tt.args))

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Tool != tt.tool {
				t.Errorf("expected tool %s, got %s", tt.tool, verr.Tool)
			}
			if tt.field != "" && verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
			if len(fake.Calls()) != 0 {
				t.Error("upstream should not be called")
			}
		})
	}
}

func TestCallUpstreamError(t *testing.T) {
	fake := &testutil.FakeMaps{Err: errors.New("maps: OVER_QUERY_LIMIT - quota exceeded")}
	logger, logs := testutil.CaptureLogger()
	r := NewRegistry(fake, logger)

	_, err := r.Call(context.Background(), "maps_geocode", json.RawMessage(`{"address":"x"}`))
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if uerr.Tool != "maps_geocode" {
		t.Errorf("expected tool maps_geocode, got %s", uerr.Tool)
	}
	if err.Error() != "maps: OVER_QUERY_LIMIT - quota exceeded" {
		t.Errorf("upstream message altered: %q", err.Error())
	}
	if !errors.Is(err, fake.Err) {
		t.Error("upstream error should unwrap to the original")
	}
	if IsClientError(err) {
		t.Error("upstream failure should not be a client error")
	}
	if !logs.Contains("level=ERROR", `msg="upstream call failed"`, "tool=maps_geocode", "OVER_QUERY_LIMIT") {
		t.Errorf("expected upstream failure to be logged, got:\n%s", logs)
	}
}

func TestCallMalformedPayload(t *testing.T) {
	fake := &testutil.FakeMaps{Details: json.RawMessage(`{"name":`)}
	logger, logs := testutil.CaptureLogger()
	r := NewRegistry(fake, logger)

	_, err := r.Call(context.Background(), "maps_place_details", json.RawMessage(`{"place_id":"p"}`))
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !logs.Contains(`msg="malformed upstream payload"`, "tool=maps_place_details") {
		t.Errorf("expected malformed payload to be logged, got:\n%s", logs)
	}
}

func TestRegisterTools(t *testing.T) {
	fake := &testutil.FakeMaps{GeocodeResults: json.RawMessage(`[{"place_id":"p1"}]`)}
	r := newTestRegistry(fake)
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))
	r.RegisterTools(s)

	call := func(args string) map[string]any {
		t.Helper()
		msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"maps_geocode","arguments":` + args + `}}`
		resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("marshal response: %v", err)
		}
		var out struct {
			Result map[string]any `json:"result"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if out.Result == nil {
			t.Fatalf("no result in %s", data)
		}
		return out.Result
	}

	ok := call(`{"address":"Googleplex"}`)
	if isErr, _ := ok["isError"].(bool); isErr {
		t.Errorf("unexpected tool error: %v", ok)
	}
	okContent, _ := ok["content"].([]any)
	if len(okContent) != 1 {
		t.Fatalf("expected one content element, got %v", ok)
	}
	if text, _ := okContent[0].(map[string]any)["text"].(string); text != indented(t, `{"place_id":"p1"}`) {
		t.Errorf("unexpected result text %q", text)
	}
	if last, _ := fake.LastCall(); len(last.Args) == 0 || last.Args[0] != "Googleplex" {
		t.Errorf("expected address forwarded, got %v", last.Args)
	}

	bad := call(`{}`)
	if isErr, _ := bad["isError"].(bool); !isErr {
		t.Fatalf("expected isError for missing address, got %v", bad)
	}
	content, _ := bad["content"].([]any)
	if len(content) == 0 {
		t.Fatal("expected error content")
	}
	text, _ := content[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "address") {
		t.Errorf("expected error to name the field, got %q", text)
	}
}

func TestCallWithoutClient(t *testing.T) {
	r := NewRegistry(nil, testutil.DiscardLogger())

	_, err := r.Call(context.Background(), "maps_geocode", json.RawMessage(`{"address":"x"}`))
	if !errors.Is(err, gmaps.ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}

	// Validation still runs first.
	_, err = r.Call(context.Background(), "maps_geocode", json.RawMessage(`{}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
