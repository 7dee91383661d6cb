package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds the typed process configuration.
type Settings struct {
	Port        string
	Env         string
	CorsOrigins string
	FrontendURL string

	DB    DatabaseSettings
	Mongo MongoSettings
	Redis RedisSettings
	JWT   JWTSettings
	SMTP  SMTPSettings

	CacheTTL time.Duration

	StripeSecretKey string
	StripeCurrency  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

type DatabaseSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string.
func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type MongoSettings struct {
	URI      string
	Database string
}

type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

type JWTSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPSettings) Enabled() bool {
	return s.Host != "" && s.Port > 0 && s.From != ""
}

var (
	v        *viper.Viper
	loadOnce sync.Once
)

func instance() *viper.Viper {
	loadOnce.Do(func() {
		// missing .env is fine, the process environment still applies
		_ = godotenv.Load(".env")

		v = viper.New()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		setDefaults(v)
	})
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "cinema")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "cinema")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "60s")

	v.SetDefault("ACCESS_TOKEN_TTL", "60m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("STRIPE_CURRENCY", "eur")
}

// Config returns a single raw value, empty when unset.
func Config(key string) string {
	return instance().GetString(key)
}

// Load reads every setting and validates the required ones.
func Load() (*Settings, error) {
	v := instance()
	s := &Settings{
		Port:        v.GetString("APP_PORT"),
		Env:         v.GetString("APP_ENV"),
		CorsOrigins: v.GetString("CORS_ORIGINS"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		DB: DatabaseSettings{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoSettings{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisSettings{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTSettings{
			Secret:     v.GetString("JWT_SECRET"),
			AccessTTL:  v.GetDuration("ACCESS_TOKEN_TTL"),
			RefreshTTL: v.GetDuration("REFRESH_TOKEN_TTL"),
		},
		SMTP: SMTPSettings{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		CacheTTL:            v.GetDuration("CACHE_TTL"),
		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeCurrency:      v.GetString("STRIPE_CURRENCY"),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the server cannot start without.
func (s *Settings) Validate() error {
	if s.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if s.DB.Host == "" {
		return errors.New("DB_HOST is required")
	}
	if s.DB.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT %d", s.DB.Port)
	}
	if s.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if s.JWT.AccessTTL <= 0 || s.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (s *Settings) IsDevelopment() bool {
	return s.Env == "" || s.Env == "development"
}
