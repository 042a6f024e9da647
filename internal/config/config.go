// Package config loads settings from an optional YAML file with
// environment variable overrides. A .env file, when present, is loaded
// into the environment first.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Host string `yaml:"host"`
	Port uint   `yaml:"port"`

	SupabaseURL string `yaml:"supabase_url"`
	SupabaseKey string `yaml:"supabase_key"`

	ResendAPIKey string `yaml:"resend_api_key"`
	FromEmail    string `yaml:"from_email"`
}

const defaultFromEmail = "Facturatie <no-reply@example.com>"

// Load reads the config file at path (skipped when absent), then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Host:      "localhost",
		Port:      3000,
		FromEmail: defaultFromEmail,
	}

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.SupabaseURL = v
	}
	if v := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); v != "" {
		cfg.SupabaseKey = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.ResendAPIKey = v
	}
	if v := os.Getenv("DEFAULT_FROM_EMAIL"); v != "" {
		cfg.FromEmail = v
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return Config{}, fmt.Errorf("missing Supabase configuration: set SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
	}
	return cfg, nil
}
