package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
)

const (
	MinTimeoutSeconds     = 5
	MaxTimeoutSeconds     = 300
	DefaultTimeoutSeconds = 30

	DefaultHealthCheckSpec = "0 */5 * * * *"
)

type Server struct {
	Address string
	Port    string
}

type HealthCheck struct {
	Enabled bool
	Spec    string
}

// Config is everything the gateway reads from the environment.
type Config struct {
	Evolution    evolution.Config
	IncludeChats bool

	LogLevel  string
	LogFormat string

	Server      Server
	HealthCheck HealthCheck
}

// Load reads and validates the configuration. Every problem found is
// reported, not only the first.
func Load() (Config, error) {
	var errs []error

	cfg := Config{
		IncludeChats: env.GetEnvBoolOrDefault("CONTACT_DIRECTORY_INCLUDE_CHATS", false),
		LogLevel:     env.GetEnvStringOrDefault("LOG_LEVEL", "info"),
		LogFormat:    env.GetEnvStringOrDefault("LOG_FORMAT", "text"),
		Server: Server{
			Address: env.GetEnvStringOrDefault("SERVER_ADDRESS", "0.0.0.0"),
			Port:    env.GetEnvStringOrDefault("SERVER_PORT", "3000"),
		},
		HealthCheck: HealthCheck{
			Enabled: env.GetEnvBoolOrDefault("HEALTH_CHECK_ENABLED", true),
			Spec:    env.GetEnvStringOrDefault("HEALTH_CHECK_CRON", DefaultHealthCheckSpec),
		},
	}

	baseURL, err := env.GetEnvString("EVOLUTION_BASE_URL")
	if err != nil {
		errs = append(errs, err)
	} else if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		errs = append(errs, errors.New("EVOLUTION_BASE_URL must start with http:// or https://"))
	}

	apiKey, err := env.GetEnvString("EVOLUTION_API_TOKEN")
	if err != nil {
		errs = append(errs, err)
	}

	instance, err := env.GetEnvString("EVOLUTION_INSTANCE_NAME")
	if err != nil {
		errs = append(errs, err)
	}

	timeout, err := env.LookupEnvInt("EVOLUTION_TIMEOUT", DefaultTimeoutSeconds)
	if err != nil {
		errs = append(errs, err)
	} else if timeout < MinTimeoutSeconds || timeout > MaxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("EVOLUTION_TIMEOUT must be between %d and %d seconds, got %d", MinTimeoutSeconds, MaxTimeoutSeconds, timeout))
	}

	rateLimit, err := env.LookupEnvFloat64("EVOLUTION_RATE_LIMIT", 0)
	if err != nil {
		errs = append(errs, err)
	} else if rateLimit < 0 {
		errs = append(errs, errors.New("EVOLUTION_RATE_LIMIT cannot be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Evolution = evolution.Config{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		Instance:  instance,
		Timeout:   time.Duration(timeout) * time.Second,
		RateLimit: rateLimit,
	}
	return cfg, nil
}
