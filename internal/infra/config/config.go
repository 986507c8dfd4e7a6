package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment
// variables. Every network collaborator is optional: without MONGO_URI the
// service runs against the offline store only, without KAFKA_BROKERS
// notifications are disabled, without ICAL_FEED_URL the external calendar is
// skipped.
type Config struct {
	Env               string
	HTTPAddr          string
	DataDir           string
	ICalFeedURL       string
	FeedTimeout       time.Duration
	FeedTTL           time.Duration
	MongoURI          string
	MongoDB           string
	StoreReadTimeout  time.Duration
	StoreWriteTimeout time.Duration
	CacheMaxAge       time.Duration
	KafkaBrokers      []string
	KafkaTopicPrefix  string
	AdminTokenHash    string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DataDir:          getEnv("DATA_DIR", "data"),
		ICalFeedURL:      os.Getenv("ICAL_FEED_URL"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "cabinbook"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		AdminTokenHash:   os.Getenv("ADMIN_TOKEN_HASH"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	feedTimeout, err := parseDurationEnv("FEED_TIMEOUT", 2500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedTimeout = feedTimeout

	feedTTL, err := parseDurationEnv("FEED_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedTTL = feedTTL

	readTimeout, err := parseDurationEnv("STORE_READ_TIMEOUT", 4*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreReadTimeout = readTimeout

	writeTimeout, err := parseDurationEnv("STORE_WRITE_TIMEOUT", 4*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreWriteTimeout = writeTimeout

	maxAge, err := parseDurationEnv("CACHE_MAX_AGE", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheMaxAge = maxAge

	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("DATA_DIR must not be empty")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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
