package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/NERVsystems/mapsmcp/pkg/rpc"
	"github.com/NERVsystems/mapsmcp/pkg/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
)

// Router builds the HTTP handler with the transports selected by configuration.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", handleHealth)

	if s.cfg.Transport.ServesRPC() {
		h := s.rpcHandler()
		r.Post("/", h.ServeHTTP)
		r.Post("/rpc", h.ServeHTTP)
	}

	if s.cfg.Transport.ServesMCP() {
		streamable := server.NewStreamableHTTPServer(s.srv, server.WithStateLess(true))
		r.With(s.requireAPIKey).Post("/mcp", streamable.ServeHTTP)
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	rpc.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.BuildVersion,
	})
}

// requireAPIKey answers 500 before the request body is touched when no
// upstream key is configured.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.HasAPIKey() {
			rpc.WriteError(w, http.StatusInternalServerError, gmaps.ErrNoAPIKey.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
