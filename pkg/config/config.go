// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// MaxRequestsLimit is the largest ledger a single settlement transaction can carry.
const MaxRequestsLimit = 49

// MinWaitingSessionMaxAge is the shortest expiry the sweeper accepts.
const MinWaitingSessionMaxAge = time.Second

type Config struct {
	HTTPPort       string
	StorageBackend string
	SeedFile       string
	Tables         dynamodb.Tables

	NotificationsQueueURL string
	WebsocketAPIEndpoint  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MaxRequestsPerSession int
	MatchCandidateLimit   int
	WaitingSessionMaxAge  time.Duration
	LogLevel              slog.Level
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		HTTPPort:       withDefault(getenv("HTTP_PORT"), "8080"),
		StorageBackend: withDefault(getenv("STORAGE_BACKEND"), BackendDynamoDB),
		SeedFile:       getenv("SEED_FILE"),
		Tables: dynamodb.Tables{
			Sessions:    getenv("DYNAMODB_SESSIONS_TABLE_NAME"),
			Requests:    getenv("DYNAMODB_REQUESTS_TABLE_NAME"),
			Messages:    getenv("DYNAMODB_MESSAGES_TABLE_NAME"),
			Items:       getenv("DYNAMODB_ITEMS_TABLE_NAME"),
			Profiles:    getenv("DYNAMODB_PROFILES_TABLE_NAME"),
			Transfers:   getenv("DYNAMODB_TRANSFERS_TABLE_NAME"),
			Connections: getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
			Reads:       getenv("DYNAMODB_READS_TABLE_NAME"),
		},
		NotificationsQueueURL: getenv("SQS_NOTIFICATIONS_QUEUE_URL"),
		WebsocketAPIEndpoint:  getenv("WEBSOCKET_API_ENDPOINT"),
		RedisAddr:             getenv("REDIS_ADDR"),
		RedisPassword:         getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.RedisDB, err = intValue(getenv, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MaxRequestsPerSession, err = intValue(getenv, "MAX_REQUESTS_PER_SESSION", 40); err != nil {
		return nil, err
	}
	if cfg.MatchCandidateLimit, err = intValue(getenv, "MATCH_CANDIDATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if raw := getenv("WAITING_SESSION_MAX_AGE"); raw != "" {
		if cfg.WaitingSessionMaxAge, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid WAITING_SESSION_MAX_AGE: %w", err)
		}
	}
	if raw := getenv("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks the settings the selected backend depends on.
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendMemory:
	case BackendDynamoDB:
		t := c.Tables
		if t.Sessions == "" || t.Requests == "" || t.Messages == "" || t.Items == "" ||
			t.Profiles == "" || t.Transfers == "" || t.Connections == "" || t.Reads == "" {
			errs = append(errs, errors.New("one or more DynamoDB table name environment variables are not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.MaxRequestsPerSession < 1 || c.MaxRequestsPerSession > MaxRequestsLimit {
		errs = append(errs, fmt.Errorf("MAX_REQUESTS_PER_SESSION must be between 1 and %d", MaxRequestsLimit))
	}
	if c.MatchCandidateLimit < 1 {
		errs = append(errs, errors.New("MATCH_CANDIDATE_LIMIT must be positive"))
	}
	if c.WaitingSessionMaxAge < 0 || (c.WaitingSessionMaxAge > 0 && c.WaitingSessionMaxAge < MinWaitingSessionMaxAge) {
		errs = append(errs, fmt.Errorf("WAITING_SESSION_MAX_AGE must be 0 or at least %s", MinWaitingSessionMaxAge))
	}
	return errors.Join(errs...)
}

// Logger returns a JSON logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intValue(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
