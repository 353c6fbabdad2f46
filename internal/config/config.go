package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	DatabaseURL string `yaml:"database_url"`
	CORSOrigins string `yaml:"cors_origins"`
	TablePrefix string `yaml:"table_prefix"`

	// Session token signing
	JWTSecret string `yaml:"jwt_secret"`

	// Outbound email
	SMTP SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled returns true if SMTP is configured with at least a host.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load builds the configuration from environment variables, optionally
// overlaid by a config.yaml whose path is given in CONFIG_FILE. Env vars win
// so deployments can override a checked-in file.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	env := getEnv("ENVIRONMENT", fallback(cfg.Environment, "dev"))

	cfg.Port = getEnv("PORT", fallback(cfg.Port, "8080"))
	cfg.Environment = env
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", fallback(cfg.CORSOrigins, "http://localhost:3000"))
	cfg.TablePrefix = getEnv("TABLE_PREFIX", fallback(cfg.TablePrefix, tablePrefixFor(env)))
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnv("SMTP_PORT", fallback(cfg.SMTP.Port, "587"))
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("SMTP_FROM", fallback(cfg.SMTP.From, cfg.SMTP.Username))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// tablePrefixFor returns the table prefix for an environment
func tablePrefixFor(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func fallback(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
