// Package server provides the MCP server for the Google Maps integration and
// the HTTP router that exposes it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/NERVsystems/mapsmcp/pkg/rpc"
	"github.com/NERVsystems/mapsmcp/pkg/tools"
	"github.com/NERVsystems/mapsmcp/pkg/tools/prompts"
	"github.com/NERVsystems/mapsmcp/pkg/version"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name of the MCP server
const ServerName = "google-maps-mcp-server"

// shutdownTimeout bounds how long in-flight HTTP requests may take to drain.
const shutdownTimeout = 10 * time.Second

// Server encapsulates the MCP server with Google Maps tools.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *tools.Registry
	srv      *server.MCPServer
}

// NewServer creates a new Google Maps MCP server with all tools registered.
// client may be nil when no API key is configured.
func NewServer(cfg config.Config, client gmaps.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing Google Maps MCP server",
		"name", ServerName,
		"version", version.BuildVersion,
		"transport", cfg.Transport)

	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	registry := tools.NewRegistry(client, logger)
	registry.RegisterTools(srv)
	prompts.RegisterMapsPrompts(srv)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		srv:      srv,
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// Registry returns the tool registry shared by every transport.
func (s *Server) Registry() *tools.Registry {
	return s.registry
}

// RunStdio serves the MCP protocol over stdin/stdout.
func (s *Server) RunStdio() error {
	return server.ServeStdio(s.srv)
}

// rpcHandler builds the envelope endpoint over the shared registry.
func (s *Server) rpcHandler() http.Handler {
	return rpc.NewHandler(rpc.NewDispatcher(s.registry), s.cfg.HasAPIKey(), s.logger)
}

// ListenAndServe serves the router on the configured address until ctx is
// cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
