// Package config provides configuration management for the degree recommender service.
package config

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Dataset  DatasetConfig  `mapstructure:"dataset" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatasetConfig represents the historical admission dataset source
type DatasetConfig struct {
	// Location is a local CSV path or an http(s) URL
	Location           string  `mapstructure:"location" validate:"required"`
	HTTPTimeoutSeconds int     `mapstructure:"http_timeout_seconds" validate:"omitempty,gt=0"`
	HTTPMaxRetries     int     `mapstructure:"http_max_retries" validate:"omitempty,gte=0"`
	HTTPRateLimit      float64 `mapstructure:"http_rate_limit" validate:"omitempty,gt=0"`
}

// ModelConfig represents model artifact and training configuration
type ModelConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	ArtifactPath string `mapstructure:"artifact_path" validate:"required"`
	// Seed fixes the group shuffle so train/test splits are reproducible
	Seed int64 `mapstructure:"seed"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	DefaultTopK         int `mapstructure:"default_top_k" validate:"required,min=1,max=50"`
}

// DatabaseConfig represents the optional artifact catalog database.
// When Enabled is false the service runs file-only.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// CacheConfig represents the recommendation response cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"required,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
