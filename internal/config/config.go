package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tracker configuration. Values come from defaults, then the
// optional YAML file at DATALAYER_CONFIG_PATH, then environment variables.
type Config struct {
	KafkaBrokers    []string
	KafkaTopic      string
	ConsumerGroup   string
	MetricsAddr     string
	MaxEntries      int
	Strict          bool
	DefaultCurrency string
	ConfigPath      string
}

type fileConfig struct {
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		Topic         string   `yaml:"topic"`
		ConsumerGroup string   `yaml:"consumer_group"`
	} `yaml:"kafka"`
	MetricsAddr string `yaml:"metrics_addr"`
	DataLayer   struct {
		MaxEntries      *int   `yaml:"max_entries"`
		Strict          *bool  `yaml:"strict"`
		DefaultCurrency string `yaml:"default_currency"`
	} `yaml:"datalayer"`
}

func Default() Config {
	return Config{
		KafkaBrokers:    []string{"localhost:9092"},
		KafkaTopic:      "ec-events",
		ConsumerGroup:   "datalayer-tracker",
		MetricsAddr:     ":9102",
		MaxEntries:      10_000,
		Strict:          true,
		DefaultCurrency: "EUR",
	}
}

func Load() (Config, error) {
	cfg := Default()

	if path := getenv("DATALAYER_CONFIG_PATH", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		cfg.ConfigPath = path
	}

	if v := getenv("KAFKA_BROKERS", ""); v != "" {
		cfg.KafkaBrokers = splitAndTrim(v)
	}
	cfg.KafkaTopic = getenv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.ConsumerGroup = getenv("KAFKA_CONSUMER_GROUP", cfg.ConsumerGroup)
	cfg.MetricsAddr = getenv("METRICS_ADDR", cfg.MetricsAddr)
	// currencyCode is free-form; only surrounding whitespace is dropped.
	cfg.DefaultCurrency = strings.TrimSpace(getenv("DEFAULT_CURRENCY", cfg.DefaultCurrency))

	var err error
	if cfg.MaxEntries, err = intFromEnv("DATALAYER_MAX_ENTRIES", cfg.MaxEntries); err != nil {
		return Config{}, err
	}
	if cfg.Strict, err = boolFromEnv("DATALAYER_STRICT", cfg.Strict); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	if c.KafkaTopic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max entries must not be negative, got %d", c.MaxEntries)
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if len(file.Kafka.Brokers) > 0 {
		c.KafkaBrokers = file.Kafka.Brokers
	}
	if file.Kafka.Topic != "" {
		c.KafkaTopic = file.Kafka.Topic
	}
	if file.Kafka.ConsumerGroup != "" {
		c.ConsumerGroup = file.Kafka.ConsumerGroup
	}
	if file.MetricsAddr != "" {
		c.MetricsAddr = file.MetricsAddr
	}
	if file.DataLayer.MaxEntries != nil {
		c.MaxEntries = *file.DataLayer.MaxEntries
	}
	if file.DataLayer.Strict != nil {
		c.Strict = *file.DataLayer.Strict
	}
	if file.DataLayer.DefaultCurrency != "" {
		c.DefaultCurrency = file.DataLayer.DefaultCurrency
	}
	return nil
}

func getenv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func intFromEnv(key string, def int) (int, error) {
	val := getenv(key, "")
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func boolFromEnv(key string, def bool) (bool, error) {
	val := getenv(key, "")
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
