package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/faceit-hub-bot/internal/domain/division"
	"github.com/riskibarqy/faceit-hub-bot/internal/platform/logging"
	"gopkg.in/yaml.v3"
)

// Config stores runtime configuration for the bot.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	DiscordToken                string
	FaceitAPIKey                string
	FaceitBaseURL               string
	FaceitTimeout               time.Duration
	FaceitFetchConcurrency      int
	FaceitCircuitEnabled        bool
	FaceitCircuitFailureCount   int
	FaceitCircuitOpenTimeout    time.Duration
	FaceitCircuitHalfOpenMaxReq int
	Divisions                   []division.Division
	CommandWorkers              int
	OpsEnabled                  bool
	OpsAddr                     string
	ShutdownTimeout             time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	discordToken := strings.TrimSpace(getEnv("DISCORD_TOKEN", ""))
	if discordToken == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN is required")
	}
	faceitAPIKey := strings.TrimSpace(getEnv("FACEIT_API_KEY", ""))
	if faceitAPIKey == "" {
		return Config{}, fmt.Errorf("FACEIT_API_KEY is required")
	}

	faceitTimeout, err := time.ParseDuration(getEnv("FACEIT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_TIMEOUT: %w", err)
	}
	if faceitTimeout <= 0 {
		return Config{}, fmt.Errorf("FACEIT_TIMEOUT must be > 0")
	}
	faceitFetchConcurrency, err := getEnvAsInt("FACEIT_FETCH_CONCURRENCY", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_FETCH_CONCURRENCY: %w", err)
	}
	if faceitFetchConcurrency < 1 {
		return Config{}, fmt.Errorf("FACEIT_FETCH_CONCURRENCY must be >= 1")
	}

	faceitCircuitEnabled, err := strconv.ParseBool(getEnv("FACEIT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_CIRCUIT_ENABLED: %w", err)
	}
	faceitCircuitFailureCount, err := getEnvAsInt("FACEIT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if faceitCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FACEIT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	faceitCircuitOpenTimeout, err := time.ParseDuration(getEnv("FACEIT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if faceitCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FACEIT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	faceitCircuitHalfOpenMaxReq, err := getEnvAsInt("FACEIT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FACEIT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if faceitCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FACEIT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	divisions, err := loadDivisions(getEnv("FACEIT_HUBS_FILE", ""), getEnv("FACEIT_HUBS", ""))
	if err != nil {
		return Config{}, err
	}

	commandWorkers, err := getEnvAsInt("COMMAND_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse COMMAND_WORKERS: %w", err)
	}
	if commandWorkers < 1 {
		return Config{}, fmt.Errorf("COMMAND_WORKERS must be >= 1")
	}

	opsEnabled, err := strconv.ParseBool(getEnv("OPS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPS_ENABLED: %w", err)
	}
	opsAddr := strings.TrimSpace(getEnv("OPS_ADDR", ":8080"))
	if opsEnabled && opsAddr == "" {
		return Config{}, fmt.Errorf("OPS_ADDR is required when OPS_ENABLED=true")
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
	}
	if shutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "faceit-hub-bot"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		DiscordToken:                discordToken,
		FaceitAPIKey:                faceitAPIKey,
		FaceitBaseURL:               strings.TrimSpace(getEnv("FACEIT_BASE_URL", "https://open.faceit.com/data/v4")),
		FaceitTimeout:               faceitTimeout,
		FaceitFetchConcurrency:      faceitFetchConcurrency,
		FaceitCircuitEnabled:        faceitCircuitEnabled,
		FaceitCircuitFailureCount:   faceitCircuitFailureCount,
		FaceitCircuitOpenTimeout:    faceitCircuitOpenTimeout,
		FaceitCircuitHalfOpenMaxReq: faceitCircuitHalfOpenMaxReq,
		Divisions:                   divisions,
		CommandWorkers:              commandWorkers,
		OpsEnabled:                  opsEnabled,
		OpsAddr:                     opsAddr,
		ShutdownTimeout:             shutdownTimeout,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		LogLevel:                    parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

type hubsFile struct {
	Hubs []hubsFileItem `yaml:"hubs"`
}

type hubsFileItem struct {
	Label string `yaml:"label"`
	HubID string `yaml:"hub_id"`
}

// loadDivisions picks the hub table: the YAML file when set, then the inline
// list, then the built-in defaults. The result is checked the same way the
// registry will check it.
func loadDivisions(path, inline string) ([]division.Division, error) {
	var (
		out    []division.Division
		source string
		err    error
	)
	switch {
	case strings.TrimSpace(path) != "":
		source = "FACEIT_HUBS_FILE"
		out, err = readHubsFile(strings.TrimSpace(path))
	case strings.TrimSpace(inline) != "":
		source = "FACEIT_HUBS"
		out, err = parseHubs(inline)
	default:
		return division.DefaultDivisions(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if _, err := division.NewRegistry(out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return out, nil
}

func readHubsFile(path string) ([]division.Division, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file hubsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	out := make([]division.Division, 0, len(file.Hubs))
	for _, item := range file.Hubs {
		out = append(out, division.Division{Label: item.Label, HubID: item.HubID})
	}
	return out, nil
}

// parseHubs reads "Label:hubId" pairs separated by commas. Labels may contain
// spaces and colons; the hub id is everything after the last colon.
func parseHubs(raw string) ([]division.Division, error) {
	items := splitCSV(raw)
	out := make([]division.Division, 0, len(items))
	for _, item := range items {
		idx := strings.LastIndex(item, ":")
		if idx <= 0 || idx == len(item)-1 {
			return nil, fmt.Errorf("invalid hub item %q, expected label:hub_id", item)
		}
		out = append(out, division.Division{
			Label: strings.TrimSpace(item[:idx]),
			HubID: strings.TrimSpace(item[idx+1:]),
		})
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
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

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
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
