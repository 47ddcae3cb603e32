package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"DATALAYER_CONFIG_PATH",
	"KAFKA_BROKERS",
	"KAFKA_TOPIC",
	"KAFKA_CONSUMER_GROUP",
	"METRICS_ADDR",
	"DATALAYER_MAX_ENTRIES",
	"DATALAYER_STRICT",
	"DEFAULT_CURRENCY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datalayer.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "shop-events")
	t.Setenv("KAFKA_CONSUMER_GROUP", "tracker-test")
	t.Setenv("METRICS_ADDR", ":9999")
	t.Setenv("DATALAYER_MAX_ENTRIES", "25")
	t.Setenv("DATALAYER_STRICT", "false")
	t.Setenv("DEFAULT_CURRENCY", "USD")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "shop-events", cfg.KafkaTopic)
	assert.Equal(t, "tracker-test", cfg.ConsumerGroup)
	assert.Equal(t, ":9999", cfg.MetricsAddr)
	assert.Equal(t, 25, cfg.MaxEntries)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
kafka:
  brokers: ["file-kafka:9092"]
  topic: file-topic
metrics_addr: ":9200"
datalayer:
  max_entries: 0
  strict: false
  default_currency: GBP
`)
	t.Setenv("DATALAYER_CONFIG_PATH", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"file-kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "file-topic", cfg.KafkaTopic)
	assert.Equal(t, "datalayer-tracker", cfg.ConsumerGroup)
	assert.Equal(t, ":9200", cfg.MetricsAddr)
	assert.Equal(t, 0, cfg.MaxEntries)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "GBP", cfg.DefaultCurrency)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATALAYER_CONFIG_PATH", writeFile(t, "kafka:\n  topic: file-topic\ndatalayer:\n  strict: false\n"))
	t.Setenv("KAFKA_TOPIC", "env-topic")
	t.Setenv("DATALAYER_STRICT", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "env-topic", cfg.KafkaTopic)
	assert.True(t, cfg.Strict)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing file", map[string]string{"DATALAYER_CONFIG_PATH": "/nonexistent/datalayer.yml"}},
		{"bad max entries", map[string]string{"DATALAYER_MAX_ENTRIES": "many"}},
		{"negative max entries", map[string]string{"DATALAYER_MAX_ENTRIES": "-1"}},
		{"bad strict flag", map[string]string{"DATALAYER_STRICT": "sometimes"}},
		{"no brokers", map[string]string{"KAFKA_BROKERS": " , "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATALAYER_CONFIG_PATH", writeFile(t, "kafka: [unclosed"))

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_CurrencyIsFreeForm(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_CURRENCY", " euro ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "euro", cfg.DefaultCurrency)
}
