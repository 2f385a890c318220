package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/NERVsystems/mapsmcp/pkg/gmaps"

// ServiceOptions configures the behaviour wrapped around an upstream Client.
type ServiceOptions struct {
	// RateLimit is the sustained number of upstream requests per second.
	// Zero or less disables rate limiting.
	RateLimit float64
	// Burst is the limiter bucket size; values below 1 are treated as 1.
	Burst int
	// Cache stores successful responses when non-nil.
	Cache *cache.TTLCache
	// Tracer defaults to the global OpenTelemetry tracer provider.
	Tracer trace.Tracer
	Logger *slog.Logger
}

// Service wraps an upstream Client with rate limiting, response caching and
// tracing. It never retries: a failed upstream call is returned as is.
type Service struct {
	upstream Client
	limiter  *rate.Limiter
	cache    *cache.TTLCache
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewService wraps upstream.
func NewService(upstream Client, opts ServiceOptions) *Service {
	s := &Service{
		upstream: upstream,
		cache:    opts.Cache,
		tracer:   opts.Tracer,
		logger:   opts.Logger,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Wait blocks until the rate limiter allows an upstream request or the
// context is canceled.
func (s *Service) Wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Debug("rate limiter wait error", "error", err)
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

func (s *Service) do(ctx context.Context, op string, key []string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "maps."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var cacheKey string
	if s.cache != nil {
		cacheKey = cache.Key(append([]string{op}, key...)...)
		if v, ok := s.cache.Get(cacheKey); ok {
			if raw, ok := v.(json.RawMessage); ok {
				span.SetAttributes(attribute.Bool("maps.cache_hit", true))
				s.logger.Debug("upstream cache hit", "operation", op)
				return raw, nil
			}
		}
	}

	if err := s.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	start := time.Now()
	raw, err := fn(ctx)
	s.logger.Debug("upstream call",
		"operation", op,
		"duration", time.Since(start),
		"bytes", len(raw),
		"ok", err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("maps.response_bytes", len(raw)))

	if s.cache != nil {
		s.cache.Set(cacheKey, raw)
		s.logger.Debug("cached upstream response", "operation", op, "entries", s.cache.Count())
	}
	return raw, nil
}

// Geocode implements Client.
func (s *Service) Geocode(ctx context.Context, address string) (json.RawMessage, error) {
	return s.do(ctx, OpGeocode, []string{address}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.Geocode(ctx, address)
	})
}

// ReverseGeocode implements Client.
func (s *Service) ReverseGeocode(ctx context.Context, latlng string) (json.RawMessage, error) {
	return s.do(ctx, OpReverseGeocode, []string{latlng}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.ReverseGeocode(ctx, latlng)
	})
}

// TextSearch implements Client.
func (s *Service) TextSearch(ctx context.Context, params TextSearchParams) (json.RawMessage, error) {
	key := []string{params.Query, params.Location, strconv.FormatUint(uint64(params.Radius), 10)}
	return s.do(ctx, OpTextSearch, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.TextSearch(ctx, params)
	})
}

// PlaceDetails implements Client.
func (s *Service) PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	return s.do(ctx, OpPlaceDetails, []string{placeID}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.PlaceDetails(ctx, placeID)
	})
}

// DistanceMatrix implements Client.
func (s *Service) DistanceMatrix(ctx context.Context, origins, destinations []string, mode string) (json.RawMessage, error) {
	key := []string{strings.Join(origins, "|"), strings.Join(destinations, "|"), mode}
	return s.do(ctx, OpDistanceMatrix, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.DistanceMatrix(ctx, origins, destinations, mode)
	})
}

// Elevation implements Client.
func (s *Service) Elevation(ctx context.Context, locations string) (json.RawMessage, error) {
	return s.do(ctx, OpElevation, []string{locations}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.Elevation(ctx, locations)
	})
}

// Directions implements Client.
func (s *Service) Directions(ctx context.Context, origin, destination, mode string) (json.RawMessage, error) {
	return s.do(ctx, OpDirections, []string{origin, destination, mode}, func(ctx context.Context) (json.RawMessage, error) {
		return s.upstream.Directions(ctx, origin, destination, mode)
	})
}
