// Package config loads service settings from the environment, with an
// optional YAML file as the base layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings. Values come from an optional YAML file
// (CONFIG_FILE) overridden by environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath          string
	ReportListLimit int

	// Fallback coordinate for unresolvable locations.
	FallbackLat float64
	FallbackLng float64

	// Webhook secondary sink, enabled when a URL is set.
	WebhookURL     string
	WebhookEnabled bool
	WebhookTimeout time.Duration

	// Kafka secondary sink, enabled when brokers are set.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool

	ForwardQueueSize int
}

// fileConfig mirrors Config for the YAML layer. Durations are strings so the
// file can say "5s" rather than nanoseconds.
type fileConfig struct {
	HTTPAddr         string   `yaml:"http_addr"`
	LogLevel         string   `yaml:"log_level"`
	LogFormat        string   `yaml:"log_format"`
	ShutdownTimeout  string   `yaml:"shutdown_timeout"`
	DBPath           string   `yaml:"db_path"`
	ReportListLimit  int      `yaml:"report_list_limit"`
	FallbackLat      *float64 `yaml:"fallback_lat"`
	FallbackLng      *float64 `yaml:"fallback_lng"`
	WebhookURL       string   `yaml:"webhook_url"`
	WebhookTimeout   string   `yaml:"webhook_timeout"`
	KafkaBrokers     string   `yaml:"kafka_brokers"`
	KafkaSinkTopic   string   `yaml:"kafka_sink_topic"`
	ForwardQueueSize int      `yaml:"forward_queue_size"`
}

// Load reads configuration, applying defaults where unset. The default
// fallback coordinate is central Chennai.
func Load() (*Config, error) {
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", file.ShutdownTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	webhookTimeout, err := parseDuration("WEBHOOK_TIMEOUT", file.WebhookTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}

	listLimit, err := parseInt("REPORT_LIST_LIMIT", file.ReportListLimit, 10)
	if err != nil {
		return nil, err
	}
	queueSize, err := parseInt("FORWARD_QUEUE_SIZE", file.ForwardQueueSize, 256)
	if err != nil {
		return nil, err
	}

	fallbackLat, err := parseFloat("FALLBACK_LAT", file.FallbackLat, 13.0827)
	if err != nil {
		return nil, err
	}
	fallbackLng, err := parseFloat("FALLBACK_LNG", file.FallbackLng, 80.2707)
	if err != nil {
		return nil, err
	}

	webhookURL := stringOr("WEBHOOK_URL", file.WebhookURL, "")
	brokers := parseBrokers(stringOr("KAFKA_BROKERS", file.KafkaBrokers, ""))

	cfg := &Config{
		HTTPAddr:        stringOr("HTTP_ADDR", file.HTTPAddr, ":8080"),
		LogLevel:        stringOr("LOG_LEVEL", file.LogLevel, "info"),
		LogFormat:       stringOr("LOG_FORMAT", file.LogFormat, "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath:          stringOr("DB_PATH", file.DBPath, "urbanlytic.db"),
		ReportListLimit: listLimit,

		FallbackLat: fallbackLat,
		FallbackLng: fallbackLng,

		WebhookURL:     webhookURL,
		WebhookEnabled: webhookURL != "",
		WebhookTimeout: webhookTimeout,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: stringOr("KAFKA_SINK_TOPIC", file.KafkaSinkTopic, "incident-reports"),
		KafkaEnabled:   len(brokers) > 0,

		ForwardQueueSize: queueSize,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if cfg.ReportListLimit <= 0 {
		return nil, errors.New("invalid REPORT_LIST_LIMIT")
	}
	if cfg.ForwardQueueSize <= 0 {
		return nil, errors.New("invalid FORWARD_QUEUE_SIZE")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.FallbackLat < -90 || cfg.FallbackLat > 90 {
		return nil, errors.New("FALLBACK_LAT out of range")
	}
	if cfg.FallbackLng < -180 || cfg.FallbackLng > 180 {
		return nil, errors.New("FALLBACK_LNG out of range")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if path == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file: %w", err)
	}
	return file, nil
}

// stringOr resolves one string setting: env wins, then the file, then the
// default.
func stringOr(env, fileVal, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

func parseDuration(env, fileVal string, def time.Duration) (time.Duration, error) {
	s := stringOr(env, fileVal, "")
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", env, s)
	}
	return d, nil
}

func parseInt(env string, fileVal, def int) (int, error) {
	if s := os.Getenv(env); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %q", env, s)
		}
		return n, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}

func parseFloat(env string, fileVal *float64, def float64) (float64, error) {
	if s := os.Getenv(env); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %q", env, s)
		}
		return f, nil
	}
	if fileVal != nil {
		return *fileVal, nil
	}
	return def, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
