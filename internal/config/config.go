package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	JWTTTL                 time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	StoragePublicDir       string
	StoragePublicURL       string
	StorageDefaultBackend  string
	UploadMaxBytes         int64
	DashboardCacheTTL      time.Duration
	NotificationChannel    string
	NotificationKeepAlive  time.Duration
	BootstrapEmail         string
	BootstrapPassword      string
	BootstrapName          string
	CORSAllowOrigins       string
	MetricsToken           string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CloudinaryEnabled reports whether remote blob storage credentials were supplied.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SARABAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Saraban API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("cloudinary.folder", "saraban/documents")
	v.SetDefault("storage.public_dir", "./public")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.default_backend", "local")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("notification.channel", "saraban:notifications")
	v.SetDefault("notification.keepalive", "25s")
	v.SetDefault("cors.allow_origins", "*")

	jwtTTL, err := parseDuration(v, "jwt.ttl", 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	keepAlive, err := parseDuration(v, "notification.keepalive", 25*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid notification keepalive: %w", err)
	}

	maxMB := v.GetInt64("upload.max_mb")
	if maxMB <= 0 {
		maxMB = 10
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		StoragePublicDir:       v.GetString("storage.public_dir"),
		StoragePublicURL:       strings.TrimRight(v.GetString("storage.public_url"), "/"),
		StorageDefaultBackend:  strings.ToLower(v.GetString("storage.default_backend")),
		UploadMaxBytes:         maxMB << 20,
		DashboardCacheTTL:      cacheTTL,
		NotificationChannel:    v.GetString("notification.channel"),
		NotificationKeepAlive:  keepAlive,
		BootstrapEmail:         v.GetString("bootstrap.email"),
		BootstrapPassword:      v.GetString("bootstrap.password"),
		BootstrapName:          v.GetString("bootstrap.name"),
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
		MetricsToken:           v.GetString("metrics.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
