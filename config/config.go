package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Storage   StorageConfig
	ImageHost ImageHostConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port       string
	Env        string
	LogLevel   string
	TimeZone   string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host          string
	Port          string
	Password      string
	DB            int
	ChangeChannel string
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AdminConfig names the reserved administrator address. When Password is set
// an account for Email is created at startup if it does not exist yet.
type AdminConfig struct {
	Email    string
	Password string
}

type StorageConfig struct {
	Dir     string
	BaseURL string
}

type ImageHostConfig struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
	Timeout      time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.NotifyTo != ""
}

type RateLimitConfig struct {
	RPS        float64
	Burst      int
	TrustProxy bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("APP_CORS_ORIGIN", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_CHANGE_CHANNEL", "hospital:changes")
	v.SetDefault("ADMIN_EMAIL", "admin@rajakumari.com")
	v.SetDefault("STORAGE_DIR", "./uploads")
	v.SetDefault("STORAGE_BASE_URL", "http://localhost:8080/files")
	v.SetDefault("IMAGE_HOST_BASE_URL", "https://api.cloudinary.com")
	v.SetDefault("IMAGE_HOST_TIMEOUT", "30s")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_TRUST_PROXY", false)
}

// LoadConfig reads .env when present and lets environment variables override it.
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			LogLevel:   v.GetString("LOG_LEVEL"),
			TimeZone:   v.GetString("APP_TIMEZONE"),
			CORSOrigin: v.GetString("APP_CORS_ORIGIN"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			TimeZone:    v.GetString("APP_TIMEZONE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:          v.GetString("REDIS_HOST"),
			Port:          v.GetString("REDIS_PORT"),
			Password:      v.GetString("REDIS_PASSWORD"),
			DB:            v.GetInt("REDIS_DB"),
			ChangeChannel: v.GetString("REDIS_CHANGE_CHANNEL"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			Dir:     v.GetString("STORAGE_DIR"),
			BaseURL: v.GetString("STORAGE_BASE_URL"),
		},
		ImageHost: ImageHostConfig{
			BaseURL:      v.GetString("IMAGE_HOST_BASE_URL"),
			CloudName:    v.GetString("IMAGE_HOST_CLOUD_NAME"),
			UploadPreset: v.GetString("IMAGE_HOST_UPLOAD_PRESET"),
			Timeout:      v.GetDuration("IMAGE_HOST_TIMEOUT"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			NotifyTo: v.GetString("ENQUIRY_NOTIFY_TO"),
		},
		RateLimit: RateLimitConfig{
			RPS:        v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:      v.GetInt("RATE_LIMIT_BURST"),
			TrustProxy: v.GetBool("RATE_LIMIT_TRUST_PROXY"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
