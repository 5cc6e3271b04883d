// Package config loads the service configuration from a YAML file, an
// optional .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// DefaultPath is used when CONFIG_PATH is unset.
var DefaultPath = filepath.Join("internal", "company", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	HTTPPort     int      `yaml:"HTTP_PORT"`
	Store        string   `yaml:"STORE"`
	SQLiteDSN    string   `yaml:"SQLITE_DSN"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	LogLevel     string   `yaml:"LOG_LEVEL"`
}

func defaults() Config {
	return Config{
		HTTPPort: 8080,
		Store:    StoreMemory,
		Topic:    "company_events",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path (DefaultPath when empty). A missing file
// is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", v, err)
		}
		c.HTTPPort = port
	}
	if v, ok := os.LookupEnv("STORE"); ok {
		c.Store = v
	}
	if v, ok := os.LookupEnv("SQLITE_DSN"); ok {
		c.SQLiteDSN = v
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	if v, ok := os.LookupEnv("TOPIC"); ok {
		c.Topic = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	if len(c.KafkaBrokers) > 0 && c.Topic == "" {
		return errors.New("TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
