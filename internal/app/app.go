package app

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fpl-pulse/external/fpl"
	"github.com/riskibarqy/fpl-pulse/internal/config"
	"github.com/riskibarqy/fpl-pulse/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-pulse/internal/interfaces/mcpserver"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
	"github.com/riskibarqy/fpl-pulse/internal/platform/resilience"
	"github.com/riskibarqy/fpl-pulse/internal/usecase"
)

// App holds the services shared by the HTTP API and the MCP server.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	metrics *metrics.Manager
	awards  *usecase.LeagueAwardsService
	pulse   *usecase.PulseService
}

func New(cfg config.Config, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}

	var m *metrics.Manager
	if cfg.MetricsEnabled {
		m = metrics.NewManager(metrics.WithConstLabels(map[string]string{"service": cfg.ServiceName}))
	}

	policy := FetchPolicy(cfg)
	client := fpl.NewClient(fpl.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FPLTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:        cfg.FPLBaseURL,
		Timeout:        cfg.FPLTimeout,
		Retry:          policy.Retry,
		CircuitBreaker: policy.Breaker,
		CacheTTL:       cfg.FPLCacheTTL,
		Logger:         logger,
		Metrics:        m,
	})

	engine := EngineConfig(cfg)
	return &App{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		awards:  usecase.NewLeagueAwardsService(client, engine, logger, m),
		pulse:   usecase.NewPulseService(client, engine, logger, m),
	}
}

// FetchPolicy maps FPL_* settings onto the upstream retry and breaker policy.
func FetchPolicy(cfg config.Config) resilience.Policy {
	return resilience.Policy{
		Retry: resilience.RetryPolicy{
			MaxAttempts: cfg.FPLMaxAttempts,
			BaseDelay:   cfg.FPLRetryBaseDelay,
		},
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	}.Normalize()
}

func EngineConfig(cfg config.Config) usecase.EngineConfig {
	return usecase.EngineConfig{
		MaxWorkers:         cfg.FetchMaxWorkers,
		MaxSampledManagers: cfg.AwardsMaxSampledManagers,
		TopNProfiles:       cfg.AwardsTopNProfiles,
		ReferencePlayerID:  cfg.AwardsReferencePlayerID,
		DefaultSource:      cfg.AwardsDefaultSource,
		SeasonLength:       cfg.SeasonLength,
		PriceHistory:       cfg.PulsePriceHistoryEnabled,
	}
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.awards, a.pulse, a.logger)
	router := httpapi.NewRouter(handler, a.logger, a.metrics, a.cfg.SwaggerEnabled, a.cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.cfg.WriteTimeout,
	}, nil
}

func (a *App) NewMCPServer() (*http.Server, error) {
	if a.cfg.MCPAddr == "" {
		return nil, fmt.Errorf("mcp server addr cannot be empty")
	}

	srv := mcpserver.New(a.awards, a.pulse, mcpserver.Options{
		Name:    a.cfg.ServiceName + "-mcp",
		Version: a.cfg.ServiceVersion,
	}, a.logger, a.metrics)

	return &http.Server{
		Addr:              a.cfg.MCPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}
