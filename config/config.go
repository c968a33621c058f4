package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	ImageKit  ImageKitConfig  `yaml:"imagekit"`
	Auth      AuthConfig      `yaml:"auth"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	SQLitePath   string `yaml:"sqlite_path"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Provider          string   `yaml:"provider"`
	BasePath          string   `yaml:"base_path"`
	PublicURL         string   `yaml:"public_url"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type ImageKitConfig struct {
	PublicKey   string `yaml:"public_key"`
	PrivateKey  string `yaml:"private_key"`
	URLEndpoint string `yaml:"url_endpoint"`
	APIBase     string `yaml:"api_base"`
	UploadBase  string `yaml:"upload_base"`
	Folder      string `yaml:"folder"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type AuthConfig struct {
	Mode         string `yaml:"mode"`
	Secret       string `yaml:"secret"`
	ExpireHours  int    `yaml:"expire_hours"`
	OIDCIssuer   string `yaml:"oidc_issuer"`
	OIDCClientID string `yaml:"oidc_client_id"`
}

type ThumbnailConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

type LifecycleConfig struct {
	BlobDeleteConcurrency int `yaml:"blob_delete_concurrency"`
	OrphanRetryInterval   int `yaml:"orphan_retry_interval"`
	OrphanBatchSize       int `yaml:"orphan_batch_size"`
	OrphanMaxAttempts     int `yaml:"orphan_max_attempts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

// Default returns a configuration populated only with defaults. Used by tests
// and by commands that run without a config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() *Config {
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "droply.db"
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./data"
	}
	if cfg.Storage.MaxFileSize == 0 {
		cfg.Storage.MaxFileSize = 100 << 20
	}
	if cfg.ImageKit.TimeoutMs == 0 {
		cfg.ImageKit.TimeoutMs = 30000
	}
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "jwt"
	}
	if cfg.Auth.ExpireHours == 0 {
		cfg.Auth.ExpireHours = 24
	}
	if cfg.Thumbnail.Width == 0 {
		cfg.Thumbnail.Width = 200
	}
	if cfg.Thumbnail.Height == 0 {
		cfg.Thumbnail.Height = 200
	}
	if cfg.Thumbnail.Quality == 0 {
		cfg.Thumbnail.Quality = 80
	}
	if cfg.Lifecycle.BlobDeleteConcurrency <= 0 {
		cfg.Lifecycle.BlobDeleteConcurrency = 8
	}
	if cfg.Lifecycle.OrphanRetryInterval <= 0 {
		cfg.Lifecycle.OrphanRetryInterval = 300
	}
	if cfg.Lifecycle.OrphanBatchSize <= 0 {
		cfg.Lifecycle.OrphanBatchSize = 50
	}
	if cfg.Lifecycle.OrphanMaxAttempts <= 0 {
		cfg.Lifecycle.OrphanMaxAttempts = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"DROPLY_JWT_SECRET":           &cfg.Auth.Secret,
		"DROPLY_DATABASE_PASSWORD":    &cfg.Database.Password,
		"DROPLY_REDIS_PASSWORD":       &cfg.Redis.Password,
		"DROPLY_IMAGEKIT_PUBLIC_KEY":  &cfg.ImageKit.PublicKey,
		"DROPLY_IMAGEKIT_PRIVATE_KEY": &cfg.ImageKit.PrivateKey,
		"DROPLY_IMAGEKIT_URL":         &cfg.ImageKit.URLEndpoint,
		"OIDC_ISSUER":                 &cfg.Auth.OIDCIssuer,
		"OIDC_CLIENT_ID":              &cfg.Auth.OIDCClientID,
	}
	for key, target := range overrides {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*target = value
		}
	}
}
