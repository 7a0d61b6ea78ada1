package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	SeedDemo bool           `yaml:"seed_demo_data"`
}

// SQLiteConfig contains SQLite settings
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig contains session token settings
type AuthConfig struct {
	TokenSecret   string `yaml:"token_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// PaymentConfig contains settlement gateway settings
type PaymentConfig struct {
	SettlementDelayMS int     `yaml:"settlement_delay_ms"`
	SuccessRate       float64 `yaml:"success_rate"`
}

// SchedulerConfig contains rent reminder settings
type SchedulerConfig struct {
	RentReminderEnabled bool   `yaml:"rent_reminder_enabled"`
	RentReminderTime    string `yaml:"rent_reminder_time"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8085",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			SQLite: SQLiteConfig{
				Path: "portal.db",
			},
			Postgres: PostgresConfig{
				Host:    "db",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Auth: AuthConfig{
			TokenSecret:   "dev-only-secret-change-me",
			TokenTTLHours: 24,
		},
		Payment: PaymentConfig{
			SettlementDelayMS: 1500,
			SuccessRate:       0.8,
		},
		Scheduler: SchedulerConfig{
			RentReminderEnabled: false,
			RentReminderTime:    "09:00",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// GetSettlementDelay returns the settlement delay as a duration
func (c *PaymentConfig) GetSettlementDelay() time.Duration {
	return time.Duration(c.SettlementDelayMS) * time.Millisecond
}

// GetTokenTTL returns the session token lifetime as a duration
func (c *AuthConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}
