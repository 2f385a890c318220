package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"github.com/NERVsystems/mapsmcp/pkg/version"
)

func testConfig(transport config.Transport, key string) config.Config {
	return config.Config{
		APIKey:          key,
		Addr:            "127.0.0.1:0",
		Transport:       transport,
		UpstreamTimeout: time.Second,
		RequestTimeout:  5 * time.Second,
	}
}

func newTestServer(t *testing.T, cfg config.Config, fake *testutil.FakeMaps) http.Handler {
	t.Helper()
	return NewServer(cfg, fake, testutil.DiscardLogger()).Router()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	s := NewServer(testConfig(config.TransportAll, "key"), &testutil.FakeMaps{}, testutil.DiscardLogger())
	if s.MCPServer() == nil {
		t.Fatal("NewServer() returned nil MCP server")
	}
	if got := len(s.Registry().Tools()); got != 7 {
		t.Errorf("expected 7 tools, got %d", got)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig(config.TransportAll, ""), &testutil.FakeMaps{})
	rec := do(h, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] != version.BuildVersion {
		t.Errorf("unexpected health body %v", body)
	}
}

func TestRoutesByTransport(t *testing.T) {
	list := `{"method":"tools/list"}`
	mcpList := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`

	tests := []struct {
		transport config.Transport
		path      string
		body      string
		want      int
	}{
		{config.TransportAll, "/", list, http.StatusOK},
		{config.TransportAll, "/rpc", list, http.StatusOK},
		{config.TransportAll, "/mcp", mcpList, http.StatusOK},
		{config.TransportRPC, "/rpc", list, http.StatusOK},
		{config.TransportRPC, "/mcp", mcpList, http.StatusNotFound},
		{config.TransportMCP, "/rpc", list, http.StatusNotFound},
		{config.TransportMCP, "/mcp", mcpList, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.transport)+tt.path, func(t *testing.T) {
			h := newTestServer(t, testConfig(tt.transport, "key"), &testutil.FakeMaps{})
			rec := do(h, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	fake := &testutil.FakeMaps{}
	h := newTestServer(t, testConfig(config.TransportAll, "key"), fake)

	for _, path := range []string{"/", "/rpc", "/mcp"} {
		rec := do(h, http.MethodGet, path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: expected 405, got %d", path, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "Method Not Allowed" {
			t.Errorf("GET %s: unexpected body %q", path, rec.Body.String())
		}
	}
	if len(fake.Calls()) != 0 {
		t.Error("upstream should not be called")
	}
}

func TestMissingAPIKey(t *testing.T) {
	h := newTestServer(t, testConfig(config.TransportAll, ""), &testutil.FakeMaps{})

	for _, path := range []string{"/", "/rpc", "/mcp"} {
		rec := do(h, http.MethodPost, path, "{not json")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("POST %s: expected 500, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Google Maps API Key not configured") {
			t.Errorf("POST %s: unexpected body %q", path, rec.Body.String())
		}
	}
}

func TestMCPToolsCall(t *testing.T) {
	fake := &testutil.FakeMaps{GeocodeResults: json.RawMessage(`[{"place_id":"p1","types":["premise"]}]`)}
	h := newTestServer(t, testConfig(config.TransportMCP, "key"), fake)

	rec := do(h, http.MethodPost, "/mcp",
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"maps_geocode","arguments":{"address":"1600 Amphitheatre Parkway"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID     int `json:"id"`
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != 7 || resp.Result.IsError || len(resp.Result.Content) != 1 {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if want := "{\n  \"place_id\": \"p1\",\n  \"types\": [\n    \"premise\"\n  ]\n}"; resp.Result.Content[0].Text != want {
		t.Errorf("unexpected text %q", resp.Result.Content[0].Text)
	}
	if calls := fake.Calls(); len(calls) != 1 || calls[0].Args[0] != "1600 Amphitheatre Parkway" {
		t.Errorf("unexpected upstream calls %+v", calls)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := NewServer(testConfig(config.TransportAll, "key"), &testutil.FakeMaps{}, testutil.DiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
