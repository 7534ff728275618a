package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ian97531/boombox/internal/app/transcript"
	envconfig "github.com/ian97531/boombox/internal/config"
)

// Config is the application configuration
type Config struct {
	Engine   transcript.Options `yaml:"engine"`
	Storage  StorageConfig      `yaml:"storage"`
	Database DatabaseConfig     `yaml:"database"`
	Redis    RedisConfig        `yaml:"redis"`
	Temporal TemporalConfig     `yaml:"temporal"`
	Server   ServerConfig       `yaml:"server"`
	Log      LogConfig          `yaml:"log"`
}

// StorageConfig selects where transcripts are read from and written to
type StorageConfig struct {
	Driver    string `yaml:"driver" validate:"oneof=minio local"`
	Endpoint  string `yaml:"endpoint" validate:"required_if=Driver minio"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket" validate:"required_if=Driver minio"`
	UseSSL    bool   `yaml:"use_ssl"`
	Root      string `yaml:"root" validate:"required_if=Driver local"`
}

// DatabaseConfig selects the episode and statement repository
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// RedisConfig configures the fan-in gate. A disabled gate lets every caller through.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0,lte=15"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// TemporalConfig holds Temporal client and worker configuration
type TemporalConfig struct {
	HostPort        string        `yaml:"host_port" validate:"required"`
	Namespace       string        `yaml:"namespace" validate:"required"`
	TaskQueue       string        `yaml:"task_queue" validate:"required"`
	ActivityTimeout time.Duration `yaml:"activity_timeout" validate:"gt=0"`
	MaxAttempts     int32         `yaml:"max_attempts" validate:"gte=1,lte=10"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	Environment  string        `yaml:"environment" validate:"oneof=development production test"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

// Default returns the configuration written when no config file exists. Secrets are
// left as ${VAR} references and resolved from the environment on load. Endpoints default
// to HTTP_HOST, MINIO_ENDPOINT, REDIS_ADDR, TEMPORAL_HOST and DATABASE_URL.
func Default() *Config {
	network := envconfig.GetNetworkConfig()

	database := DatabaseConfig{Driver: "sqlite", DSN: envconfig.DefaultSQLitePath}
	if network.DatabaseURL != "" {
		database = DatabaseConfig{Driver: "postgres", DSN: network.DatabaseURL}
	}

	return &Config{
		Engine: transcript.DefaultOptions(),
		Storage: StorageConfig{
			Driver:    "minio",
			Endpoint:  network.MinioEndpoint,
			AccessKey: "${MINIO_ACCESS_KEY}",
			SecretKey: "${MINIO_SECRET_KEY}",
			Bucket:    envconfig.DefaultMinioBucket,
			Root:      "data/transcripts",
		},
		Database: database,
		Redis: RedisConfig{
			Enabled:  true,
			Addr:     network.RedisAddr,
			Password: "${REDIS_PASSWORD}",
			TTL:      7 * 24 * time.Hour,
		},
		Temporal: TemporalConfig{
			HostPort:        network.TemporalHost,
			Namespace:       envconfig.DefaultNamespace,
			TaskQueue:       envconfig.DefaultTaskQueue,
			ActivityTimeout: envconfig.DefaultActivityTimeout,
			MaxAttempts:     3,
		},
		Server: ServerConfig{
			Host:         network.HTTPHost,
			Port:         network.HTTPPort,
			ReadTimeout:  envconfig.DefaultReadTimeout,
			WriteTimeout: envconfig.DefaultWriteTimeout,
			Environment:  "development",
		},
		Log: LogConfig{Development: true},
	}
}

// Load reads the YAML config at path. A missing file is created with Default values.
// ${VAR} references are expanded from the environment before parsing, and fields absent
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(Default(), path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks struct tags, the engine options and the service endpoints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Storage.Driver == "minio" {
		if err := envconfig.ValidateHostPort(c.Storage.Endpoint, "storage"); err != nil {
			return err
		}
	}
	if c.Redis.Enabled {
		if err := envconfig.ValidateHostPort(c.Redis.Addr, "redis"); err != nil {
			return err
		}
	}
	if err := envconfig.ValidateHostPort(c.Temporal.HostPort, "temporal"); err != nil {
		return err
	}
	if err := envconfig.ValidateTimeout(c.Temporal.ActivityTimeout, "activity"); err != nil {
		return err
	}
	return envconfig.ValidatePort(c.Server.Port, "server")
}

// ListenAddr returns host:port for the HTTP server
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}
