package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/NERVsystems/mapsmcp/pkg/cache"
	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/NERVsystems/mapsmcp/pkg/server"
	"github.com/NERVsystems/mapsmcp/pkg/telemetry"
	"github.com/NERVsystems/mapsmcp/pkg/version"
)

// clientConfigKey is the entry written under mcpServers by -generate-config.
const clientConfigKey = "GoogleMaps"

// apiKeyPlaceholder is written to generated configs when no key is set.
const apiKeyPlaceholder = "<your-google-maps-api-key>"

var (
	showVersion    bool
	debug          bool
	stdio          bool
	generateConfig string
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&stdio, "stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate a Claude Desktop Client config file at the specified path")
}

func main() {
	flag.Parse()

	// Configure logging
	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Show version and exit if requested
	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Generate Claude Desktop config if requested
	if generateConfig != "" {
		if err := generateClientConfig(generateConfig, cfg.APIKey); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully generated Claude Desktop Client config", "path", generateConfig)
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting Google Maps MCP server",
		version.LogAttrs(),
		"stdio", stdio,
		"log_level", logLevelName())

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, version.Name, version.BuildVersion)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	client, err := newMapsClient(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, client, logger)
	if stdio {
		logger.Info("server initialized, waiting for requests on stdin")
		return srv.RunStdio()
	}
	return srv.ListenAndServe(ctx)
}

// newMapsClient builds the upstream client stack. It returns a nil client
// when no API key is configured so requests fail with a configuration error
// instead of the process refusing to start.
func newMapsClient(cfg config.Config, logger *slog.Logger) (gmaps.Client, error) {
	if !cfg.HasAPIKey() {
		logger.Warn("GOOGLE_MAPS_API_KEY is not set; tool calls will fail")
		return nil, nil
	}

	google, err := gmaps.NewGoogle(gmaps.GoogleConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: gmaps.NewHTTPClient(cfg.UpstreamTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("create Google Maps client: %w", err)
	}

	var responses *cache.TTLCache
	if cfg.CacheTTL > 0 {
		responses = cache.NewTTLCache(cfg.CacheTTL, cfg.CacheSize)
		logger.Info("response cache enabled", "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
	}

	return gmaps.NewService(google, gmaps.ServiceOptions{
		RateLimit: cfg.RateLimit,
		Burst:     cfg.RateBurst,
		Cache:     responses,
		Logger:    logger.With("component", "gmaps"),
	}), nil
}

func logLevelName() string {
	if debug {
		return slog.LevelDebug.String()
	}
	return slog.LevelInfo.String()
}

// generateClientConfig creates or updates a Claude Desktop Client config file
// with an entry that launches this binary in stdio mode.
func generateClientConfig(outputPath, apiKey string) error {
	logger := slog.Default()

	if outputPath == "" {
		return errors.New("config path must not be empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("config path %q must have a .json extension", outputPath)
	}
	for _, part := range strings.Split(filepath.ToSlash(outputPath), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", outputPath)
		}
	}

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	if apiKey == "" {
		apiKey = apiKeyPlaceholder
	}
	serverConfig := map[string]any{
		"command": absExecPath,
		"args":    []string{"-stdio"},
		"env": map[string]string{
			"GOOGLE_MAPS_API_KEY": apiKey,
		},
	}

	var cfg map[string]any
	if data, err := os.ReadFile(outputPath); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			cfg = nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}

	// Check if mcpServers exists, create it if not
	mcpServers, ok := cfg["mcpServers"].(map[string]any)
	if !ok {
		mcpServers = make(map[string]any)
		cfg["mcpServers"] = mcpServers
	}
	mcpServers[clientConfigKey] = serverConfig

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// The file may carry the API key.
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(outputPath, 0o600); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}

	return nil
}
