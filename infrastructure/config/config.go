// Package config loads the service configuration from code defaults, an
// optional YAML file and environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Environment is the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// Config is the complete service configuration.
type Config struct {
	Environment     Environment     `yaml:"environment" env:"ENVIRONMENT"`
	Server          Server          `yaml:"server"`
	Fuseki          Fuseki          `yaml:"fuseki"`
	OpenSearch      OpenSearch      `yaml:"opensearch"`
	GroupManagement GroupManagement `yaml:"groupmanagement"`
	Auth            Auth            `yaml:"auth"`
	Features        Features        `yaml:"features"`
	VersionGraph    string          `yaml:"versionGraph" env:"VERSION_GRAPH"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-" env:"-"`
}

type Server struct {
	Address         string        `yaml:"address" env:"SERVER_ADDRESS"`
	LogLevel        string        `yaml:"logLevel" env:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type Fuseki struct {
	URL             string        `yaml:"url" env:"FUSEKI_URL"`
	CacheExpiration time.Duration `yaml:"cacheExpiration" env:"FUSEKI_CACHE_COMMON_EXPIRATION"`
	Timeout         time.Duration `yaml:"timeout" env:"FUSEKI_TIMEOUT"`
	// ServiceCategoriesFile seeds the service category graph when it is missing.
	ServiceCategoriesFile string `yaml:"serviceCategoriesFile" env:"SERVICE_CATEGORIES_FILE"`
}

type OpenSearch struct {
	URL                string `yaml:"url" env:"OPENSEARCH_URL"`
	Username           string `yaml:"username" env:"OPENSEARCH_USERNAME"`
	Password           string `yaml:"password" env:"OPENSEARCH_PASSWORD"`
	BulkMaxSize        int    `yaml:"bulkMaxSize" env:"OPENSEARCH_BULK_MAX_SIZE"`
	InitOnStartup      bool   `yaml:"initOnStartup" env:"OPENSEARCH_INIT_ON_STARTUP"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify" env:"OPENSEARCH_INSECURE_SKIP_VERIFY"`
}

type GroupManagement struct {
	URL               string        `yaml:"url" env:"GROUPMANAGEMENT_URL"`
	SyncOrganizations time.Duration `yaml:"syncOrganizations" env:"GROUPMANAGEMENT_SYNC_ORGANIZATIONS"`
	SyncUsers         time.Duration `yaml:"syncUsers" env:"GROUPMANAGEMENT_SYNC_USERS"`
	ModifiedSince     time.Duration `yaml:"modifiedSince" env:"GROUPMANAGEMENT_MODIFIED_SINCE"`
	FakeLoginAllowed  bool          `yaml:"fakeLoginAllowed" env:"FAKE_LOGIN_ALLOWED"`
}

type Auth struct {
	JWTSecret string `yaml:"jwtSecret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwtIssuer" env:"AUTH_JWT_ISSUER"`
}

type Features struct {
	EnableMetrics   bool   `yaml:"enableMetrics" env:"ENABLE_METRICS"`
	EnableTracing   bool   `yaml:"enableTracing" env:"ENABLE_TRACING"`
	TracingEndpoint string `yaml:"tracingEndpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Address:         ":8080",
			LogLevel:        "info",
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Fuseki: Fuseki{
			CacheExpiration: 30 * time.Minute,
			Timeout:         60 * time.Second,
		},
		OpenSearch: OpenSearch{
			BulkMaxSize:   500,
			InitOnStartup: true,
		},
		GroupManagement: GroupManagement{
			SyncOrganizations: 30 * time.Minute,
			SyncUsers:         30 * time.Minute,
			ModifiedSince:     30 * time.Minute,
		},
		Features: Features{
			EnableMetrics:   true,
			TracingEndpoint: "localhost:4317",
		},
		VersionGraph: "urn:yti:metamodel:version",
		LoadedFrom:   []string{"defaults"},
	}
}

// Load builds the configuration. The YAML file is read from path, or from
// CONFIG_FILE when path is empty; a missing file is skipped.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		} else {
			cfg.LoadedFrom = append(cfg.LoadedFrom, path)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate reports every missing or invalid setting.
func (c *Config) Validate() error {
	var errs []string

	switch c.Environment {
	case Development, Test, Production:
	default:
		errs = append(errs, fmt.Sprintf("unknown environment %q", c.Environment))
	}
	if c.Fuseki.URL == "" {
		errs = append(errs, "FUSEKI_URL is required")
	}
	if c.OpenSearch.URL == "" {
		errs = append(errs, "OPENSEARCH_URL is required")
	}
	if c.GroupManagement.URL == "" {
		errs = append(errs, "GROUPMANAGEMENT_URL is required")
	}
	if c.OpenSearch.BulkMaxSize <= 0 {
		errs = append(errs, "OPENSEARCH_BULK_MAX_SIZE must be positive")
	}
	if c.GroupManagement.SyncOrganizations <= 0 || c.GroupManagement.SyncUsers <= 0 {
		errs = append(errs, "group management sync intervals must be positive")
	}
	if c.Environment == Production && c.Auth.JWTSecret == "" {
		errs = append(errs, "AUTH_JWT_SECRET is required in production")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// IsDevelopment reports whether the service runs in development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}
