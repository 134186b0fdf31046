package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
)

// ConfigFileEnv names an optional YAML file layered under the environment.
// File keys are the lower-cased variable names, e.g. `fpl_base_url`.
const ConfigFileEnv = "FPL_PULSE_CONFIG"

const (
	SourceBulk        = "bulk"
	SourceIncremental = "incremental"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	MCPAddr        string
	LogLevel       logging.Level
	LogFormat      logging.Format

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	FPLBaseURL                 string
	FPLTimeout                 time.Duration
	FPLMaxAttempts             int
	FPLRetryBaseDelay          time.Duration
	FPLCircuitEnabled          bool
	FPLCircuitFailureCount     int
	FPLCircuitOpenTimeout      time.Duration
	FPLCircuitHalfOpenMaxReq   int
	FPLCacheTTL                time.Duration
	FetchMaxWorkers            int
	AwardsMaxSampledManagers   int
	AwardsTopNProfiles         int
	AwardsReferencePlayerID    int
	AwardsDefaultSource        string
	SeasonLength               int
	PulsePriceHistoryEnabled   bool
	MetricsEnabled             bool
	SwaggerEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load layers an optional YAML file (named by FPL_PULSE_CONFIG) and then the
// process environment, and validates every field.
func Load() (Config, error) {
	k, err := newKoanf(os.Getenv(ConfigFileEnv))
	if err != nil {
		return Config{}, err
	}
	return parse(source{k: k})
}

func newKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Flat keys: FPL_BASE_URL -> fpl_base_url, same as the YAML file.
	envProvider := env.Provider("", ".", func(s string) string {
		if strings.TrimSpace(os.Getenv(s)) == "" {
			return ""
		}
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return k, nil
}

func parse(src source) (Config, error) {
	appEnv, err := parseAppEnv(src.get("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	formatDefault := string(logging.FormatConsole)
	if appEnv != EnvDev {
		formatDefault = string(logging.FormatJSON)
	}
	logFormat := logging.Format(strings.ToLower(src.get("LOG_FORMAT", formatDefault)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: valid values are json, console", logFormat)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                src.get("APP_SERVICE_NAME", "fpl-pulse"),
		ServiceVersion:             src.get("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   src.get("APP_HTTP_ADDR", ":8080"),
		MCPAddr:                    src.get("APP_MCP_ADDR", ":8090"),
		LogLevel:                   logging.ParseLevel(src.get("LOG_LEVEL", "info")),
		LogFormat:                  logFormat,
		CORSAllowedOrigins:         splitCSV(src.get("CORS_ALLOWED_ORIGINS", "*")),
		AwardsDefaultSource:        strings.ToLower(src.get("AWARDS_DEFAULT_SOURCE", SourceBulk)),
		PprofAddr:                  src.get("PPROF_ADDR", ":6060"),
		UptraceDSN:                 src.get("UPTRACE_DSN", ""),
		PyroscopeServerAddress:     src.get("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:           src.get("PYROSCOPE_APP_NAME", ""),
		PyroscopeAuthToken:         src.get("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     src.get("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: src.get("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
	}

	if cfg.HTTPAddr == "" {
		return Config{}, fmt.Errorf("APP_HTTP_ADDR must not be empty")
	}
	if cfg.MCPAddr == "" {
		return Config{}, fmt.Errorf("APP_MCP_ADDR must not be empty")
	}

	if cfg.ReadTimeout, err = src.duration("HTTP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = src.duration("HTTP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	cfg.FPLBaseURL = strings.TrimRight(src.get("FPL_BASE_URL", "https://fpl-pulse.ciaranbrennan18.workers.dev"), "/")
	if parsed, err := url.Parse(cfg.FPLBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("FPL_BASE_URL must be an absolute URL, got %q", cfg.FPLBaseURL)
	}
	if cfg.FPLTimeout, err = src.duration("FPL_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.FPLMaxAttempts, err = src.intAtLeast("FPL_MAX_ATTEMPTS", 3, 1); err != nil {
		return Config{}, err
	}
	if cfg.FPLRetryBaseDelay, err = src.duration("FPL_RETRY_BASE_DELAY", "500ms"); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitEnabled, err = src.boolean("FPL_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitFailureCount, err = src.intAtLeast("FPL_CIRCUIT_FAILURE_COUNT", 5, 1); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitOpenTimeout, err = src.duration("FPL_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitHalfOpenMaxReq, err = src.intAtLeast("FPL_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1); err != nil {
		return Config{}, err
	}
	if cfg.FPLCacheTTL, err = src.duration("FPL_CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.FetchMaxWorkers, err = src.intAtLeast("FETCH_MAX_WORKERS", 16, 1); err != nil {
		return Config{}, err
	}

	if cfg.AwardsMaxSampledManagers, err = src.intAtLeast("AWARDS_MAX_SAMPLED_MANAGERS", 30, 1); err != nil {
		return Config{}, err
	}
	if cfg.AwardsTopNProfiles, err = src.intAtLeast("AWARDS_TOP_N_PROFILES", 5, 0); err != nil {
		return Config{}, err
	}
	if cfg.AwardsReferencePlayerID, err = src.intAtLeast("AWARDS_REFERENCE_PLAYER_ID", 328, 1); err != nil {
		return Config{}, err
	}
	switch cfg.AwardsDefaultSource {
	case SourceBulk, SourceIncremental:
	default:
		return Config{}, fmt.Errorf("invalid AWARDS_DEFAULT_SOURCE %q: valid values are %s, %s", cfg.AwardsDefaultSource, SourceBulk, SourceIncremental)
	}
	if cfg.SeasonLength, err = src.intAtLeast("SEASON_LENGTH", 38, 1); err != nil {
		return Config{}, err
	}
	if cfg.PulsePriceHistoryEnabled, err = src.boolean("PULSE_PRICE_HISTORY_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.MetricsEnabled, err = src.boolean("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SwaggerEnabled, err = src.boolean("SWAGGER_ENABLED", strconv.FormatBool(appEnv == EnvDev)); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled, err = src.boolean("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = src.boolean("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceLogsEnabled, err = src.boolean("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(src.get("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = src.boolean("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = src.duration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeAppName == "" {
		cfg.PyroscopeAppName = cfg.ServiceName
	}

	return cfg, nil
}

// source reads flat, upper-case keys from the layered koanf instance.
type source struct {
	k *koanf.Koanf
}

func (s source) get(key, fallback string) string {
	value := strings.TrimSpace(s.k.String(strings.ToLower(key)))
	if value == "" {
		return fallback
	}
	return value
}

func (s source) duration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(s.get(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func (s source) intAtLeast(key string, fallback, min int) (int, error) {
	out, err := strconv.Atoi(s.get(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < min {
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	return out, nil
}

func (s source) boolean(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(s.get(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
