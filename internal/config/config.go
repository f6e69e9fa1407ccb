package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lk16/patzer/internal/uci"
)

const (
	defaultMoveTimeout   = 30 * time.Second
	defaultCacheTTL      = 24 * time.Hour
	defaultStopGrace     = 2 * time.Second
	defaultClientTimeout = time.Minute
)

// EngineOption is a UCI option set right after the handshake.
type EngineOption struct {
	Name  string
	Value string
}

// DefaultEngineOptions are used when PATZER_ENGINE_OPTIONS is not set.
var DefaultEngineOptions = []EngineOption{
	{Name: "Threads", Value: "4"},
	{Name: "Contempt Factor", Value: "50"},
	{Name: "Hash", Value: "500"},
	{Name: "Ponder", Value: "false"},
}

// ServerConfig holds all configuration values of the analysis server.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	RedisURL          string
	PostgresURL       string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string
	Prefork           bool
	CacheTTL          time.Duration
	Engine            *EngineConfig
}

// LoadServerConfig loads configuration from environment variables.
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerHost:        getEnvMust("PATZER_SERVER_HOST"),
		ServerPort:        getEnvMust("PATZER_SERVER_PORT"),
		RedisURL:          getEnvMust("PATZER_REDIS_URL"),
		PostgresURL:       getEnvMust("PATZER_POSTGRES_URL"),
		BasicAuthUsername: getEnvMust("PATZER_BASIC_AUTH_USER"),
		BasicAuthPassword: getEnvMust("PATZER_BASIC_AUTH_PASS"),
		Token:             getEnvMust("PATZER_SERVER_TOKEN"),
		Prefork:           getEnvDefault("PATZER_SERVER_PREFORK", "false") == "true",
		CacheTTL:          getEnvDuration("PATZER_CACHE_TTL", defaultCacheTTL),
		Engine:            LoadEngineConfig(),
	}
}

// EngineConfig describes how to start and set up the engine process.
type EngineConfig struct {
	Path           string
	Args           []string
	Options        []EngineOption
	BufferCapacity int
	MoveTimeout    time.Duration
	StopGrace      time.Duration
}

// LoadEngineConfig loads engine configuration from environment variables.
func LoadEngineConfig() *EngineConfig {
	options := DefaultEngineOptions
	if raw := os.Getenv("PATZER_ENGINE_OPTIONS"); raw != "" {
		var err error
		options, err = ParseEngineOptions(raw)
		if err != nil {
			slog.Error("Cannot load environment variable", "key", "PATZER_ENGINE_OPTIONS", "error", err)
			os.Exit(1)
		}
	}

	return &EngineConfig{
		Path:           getEnvMust("PATZER_ENGINE_PATH"),
		Args:           strings.Fields(os.Getenv("PATZER_ENGINE_ARGS")),
		Options:        options,
		BufferCapacity: getEnvInt("PATZER_ENGINE_BUFFER", uci.DefaultCapacity),
		MoveTimeout:    getEnvDuration("PATZER_ENGINE_MOVE_TIMEOUT", defaultMoveTimeout),
		StopGrace:      defaultStopGrace,
	}
}

// ClientConfig describes how to reach a remote analysis server.
type ClientConfig struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
}

// LoadClientConfig loads client configuration from environment variables.
func LoadClientConfig() *ClientConfig {
	return &ClientConfig{
		ServerURL: strings.TrimRight(getEnvMust("PATZER_SERVER_URL"), "/"),
		Token:     getEnvMust("PATZER_SERVER_TOKEN"),
		Timeout:   getEnvDuration("PATZER_CLIENT_TIMEOUT", defaultClientTimeout),
	}
}

// ParseEngineOptions parses a list like "Threads=4;Hash=128". An empty value is allowed.
func ParseEngineOptions(raw string) ([]EngineOption, error) {
	var options []EngineOption

	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, value, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid engine option %q, expected name=value", item)
		}

		options = append(options, EngineOption{Name: name, Value: strings.TrimSpace(value)})
	}

	return options, nil
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		slog.Error("Cannot load environment variable, it must be a positive integer", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		slog.Error("Cannot load environment variable, it must be a positive duration", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}
