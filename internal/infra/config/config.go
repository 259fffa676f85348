package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	HotelAPIMemory = "memory"
	HotelAPIHTTP   = "http"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config aggregates application configuration values loaded from environment variables.
// Mongo, Kafka, Redis and S3 are optional; empty settings switch them off.
type Config struct {
	Env      string
	HTTPAddr string

	HotelAPIMode    string
	HotelAPIURL     string
	HotelAPIToken   string
	HotelAPITimeout time.Duration
	HotelFixtures   string

	ViewRefreshInterval time.Duration
	CORSOrigins         []string

	SessionTTL    time.Duration
	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AdminEmail    string
	AdminPassword string
	StaffEmail    string
	StaffPassword string

	MongoURI           string
	MongoDB            string
	IdempotencyTTL     time.Duration
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaGroupID       string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		HotelAPIMode:     strings.ToLower(getEnv("HOTEL_API_MODE", HotelAPIMemory)),
		HotelAPIURL:      os.Getenv("HOTEL_API_URL"),
		HotelAPIToken:    os.Getenv("HOTEL_API_TOKEN"),
		HotelFixtures:    getEnv("HOTEL_FIXTURES", "data/hotel.json"),
		SessionStore:     strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@hotel.com"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
		StaffEmail:       getEnv("STAFF_EMAIL", "user@hotel.com"),
		StaffPassword:    getEnv("STAFF_PASSWORD", "user123"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "roomdesk"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "roomdesk-views"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "roomdesk-exports"),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))

	var err error
	if cfg.HotelAPITimeout, err = parseDurationEnv("HOTEL_API_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ViewRefreshInterval, err = parseDurationEnv("VIEW_REFRESH_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	for _, raw := range splitList(getEnv("RETRY_BACKOFF", "1s,5s,30s")) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	switch cfg.HotelAPIMode {
	case HotelAPIMemory:
	case HotelAPIHTTP:
		if cfg.HotelAPIURL == "" {
			return Config{}, fmt.Errorf("HOTEL_API_URL is required when HOTEL_API_MODE=%s", HotelAPIHTTP)
		}
	default:
		return Config{}, fmt.Errorf("invalid HOTEL_API_MODE %q", cfg.HotelAPIMode)
	}
	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=%s", SessionStoreRedis)
		}
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE %q", cfg.SessionStore)
	}
	if cfg.ViewRefreshInterval <= 0 {
		return Config{}, fmt.Errorf("VIEW_REFRESH_INTERVAL must be positive")
	}
	return cfg, nil
}

// Events reports whether the outbox can publish: both Mongo and Kafka are set.
func (c Config) Events() bool {
	return c.MongoURI != "" && len(c.KafkaBrokers) > 0
}

func (c Config) Exports() bool {
	return c.S3Endpoint != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
