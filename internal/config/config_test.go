package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "urbanlytic.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.ReportListLimit)
	assert.Equal(t, 13.0827, cfg.FallbackLat)
	assert.Equal(t, 80.2707, cfg.FallbackLng)
	assert.False(t, cfg.WebhookEnabled)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "incident-reports", cfg.KafkaSinkTopic)
	assert.Equal(t, 256, cfg.ForwardQueueSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DB_PATH", "/var/lib/urbanlytic/data.db")
	t.Setenv("REPORT_LIST_LIMIT", "25")
	t.Setenv("FALLBACK_LAT", "12.9716")
	t.Setenv("FALLBACK_LNG", "77.5946")
	t.Setenv("WEBHOOK_URL", "https://ops.example.com/hooks/reports")
	t.Setenv("WEBHOOK_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "city-reports")
	t.Setenv("FORWARD_QUEUE_SIZE", "64")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/urbanlytic/data.db", cfg.DBPath)
	assert.Equal(t, 25, cfg.ReportListLimit)
	assert.Equal(t, 12.9716, cfg.FallbackLat)
	assert.Equal(t, 77.5946, cfg.FallbackLng)
	assert.True(t, cfg.WebhookEnabled)
	assert.Equal(t, "https://ops.example.com/hooks/reports", cfg.WebhookURL)
	assert.Equal(t, 2*time.Second, cfg.WebhookTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "city-reports", cfg.KafkaSinkTopic)
	assert.Equal(t, 64, cfg.ForwardQueueSize)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":7070"
log_level: warn
db_path: /tmp/from-file.db
webhook_url: https://ops.example.com/hooks/reports
webhook_timeout: 3s
fallback_lat: 12.9716
fallback_lng: 77.5946
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "error") // env wins over file

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.True(t, cfg.WebhookEnabled)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 12.9716, cfg.FallbackLat)
	assert.Equal(t, 77.5946, cfg.FallbackLng)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeWebhookTimeout(t *testing.T) {
	t.Setenv("WEBHOOK_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_TIMEOUT")
}

func TestLoad_InvalidReportListLimit(t *testing.T) {
	t.Setenv("REPORT_LIST_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_LIST_LIMIT")
}

func TestLoad_FallbackLatOutOfRange(t *testing.T) {
	t.Setenv("FALLBACK_LAT", "91")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FALLBACK_LAT")
}

func TestLoad_WebhookURLImpliesEnabled(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://ops.example.com/hooks/reports")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.WebhookEnabled)
}
