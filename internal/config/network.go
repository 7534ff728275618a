package config

import (
	"fmt"
	"time"
)

// Service defaults
const (
	DefaultHTTPHost        = "0.0.0.0"
	DefaultHTTPPort        = "8080"
	DefaultMinioEndpoint   = "localhost:9000"
	DefaultMinioBucket     = "boombox-transcripts"
	DefaultRedisAddr       = "localhost:6379"
	DefaultTemporalHost    = "localhost:7233"
	DefaultNamespace       = "default"
	DefaultTaskQueue       = "boombox-transcripts"
	DefaultSQLitePath      = "data/boombox.db"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultActivityTimeout = 10 * time.Minute
)

// NetworkConfig holds the endpoints of the services boombox talks to
type NetworkConfig struct {
	HTTPHost      string
	HTTPPort      string
	MinioEndpoint string
	RedisAddr     string
	TemporalHost  string
	DatabaseURL   string
}

// GetNetworkConfig returns network configuration from environment or defaults
func GetNetworkConfig() *NetworkConfig {
	return &NetworkConfig{
		HTTPHost:      GetEnv("HTTP_HOST", DefaultHTTPHost),
		HTTPPort:      GetEnv("HTTP_PORT", DefaultHTTPPort),
		MinioEndpoint: GetEnv("MINIO_ENDPOINT", DefaultMinioEndpoint),
		RedisAddr:     GetEnv("REDIS_ADDR", DefaultRedisAddr),
		TemporalHost:  GetEnv("TEMPORAL_HOST", DefaultTemporalHost),
		DatabaseURL:   GetEnv("DATABASE_URL", ""),
	}
}

// ListenAddr returns host:port for the HTTP server
func (nc *NetworkConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%s", nc.HTTPHost, nc.HTTPPort)
}

// GetPostgresConnectionString constructs PostgreSQL connection string
func (nc *NetworkConfig) GetPostgresConnectionString() string {
	if nc.DatabaseURL != "" {
		return nc.DatabaseURL
	}

	host := GetEnv("DB_HOST", "localhost")
	port := GetEnv("DB_PORT", "5432")
	user := GetEnv("DB_USER", "postgres")
	password := GetEnv("DB_PASSWORD", "")
	dbname := GetEnv("DB_NAME", "boombox")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
