package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string
	Server      ServerConfig
	JWT         JWTConfig
	Upstream    UpstreamConfig
	CORS        CORSConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	ExpiresIn int // seconds
}

type UpstreamConfig struct {
	Services []ServiceConfig
}

type ServiceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // seconds, per outbound call
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

// defaultForwardTimeout is applied to any upstream service that does
// not configure its own timeout.
const defaultForwardTimeout = 10

func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Issuer:    getEnv("JWT_ISSUER", "api-gateway"),
			ExpiresIn: getEnvInt("JWT_EXPIRES_IN", 1800),
		},
		CORS: CORSConfig{
			AllowedOrigins:   parseStringSlice(getEnv("CORS_ALLOWED_ORIGINS", "http://*,https://*")),
			AllowedMethods:   parseStringSlice(getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
			AllowedHeaders:   parseStringSlice(getEnv("CORS_ALLOWED_HEADERS", "Accept,Authorization,Content-Type")),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 300),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			JSONFormat: getEnvBool("LOG_JSON_FORMAT", false),
		},
	}

	if err := cfg.loadUpstreamServices(); err != nil {
		return nil, fmt.Errorf("failed to load upstream services: %w", err)
	}

	for i := range cfg.Upstream.Services {
		if cfg.Upstream.Services[i].Timeout <= 0 {
			cfg.Upstream.Services[i].Timeout = defaultForwardTimeout
		}
	}

	return cfg, nil
}

func (c *Config) loadUpstreamServices() error {
	servicesYAML := getEnv("UPSTREAM_SERVICES_FILE", "config/services.yaml")

	data, err := os.ReadFile(servicesYAML)
	if err != nil {
		// Fallback to environment variables if file not found
		return c.loadUpstreamServicesFromEnv()
	}

	var services []ServiceConfig
	if err := yaml.Unmarshal(data, &services); err != nil {
		return fmt.Errorf("failed to parse services YAML: %w", err)
	}

	c.Upstream.Services = services
	return nil
}

func (c *Config) loadUpstreamServicesFromEnv() error {
	c.Upstream.Services = []ServiceConfig{
		{
			Name:    "student",
			URL:     getEnv("STUDENT_SERVICE_URL", "http://localhost:8001"),
			Timeout: getEnvInt("STUDENT_SERVICE_TIMEOUT", defaultForwardTimeout),
		},
		{
			Name:    "course",
			URL:     getEnv("COURSE_SERVICE_URL", "http://localhost:8002"),
			Timeout: getEnvInt("COURSE_SERVICE_TIMEOUT", defaultForwardTimeout),
		},
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	return strings.ToLower(valueStr) == "true" || valueStr == "1"
}

func parseStringSlice(input string) []string {
	var result []string
	for _, v := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
