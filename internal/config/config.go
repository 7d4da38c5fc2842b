// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DuplicateRatingReject    = "reject"
	DuplicateRatingOverwrite = "overwrite"

	envProduction  = "production"
	envDevelopment = "development"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	Pagination PaginationConfig `koanf:"pagination"`
	Rating     RatingConfig     `koanf:"rating"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment" validate:"oneof=development staging production test"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"             validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"   validate:"gt=0"`
}

// Address is the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"                validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"     validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns"     validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	QueryTimeout    time.Duration `koanf:"query_timeout"      validate:"gt=0"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"            validate:"required"`
	PoolSize     int    `koanf:"pool_size"      validate:"min=1"`
	MinIdleConns int    `koanf:"min_idle_conns" validate:"min=0"`
}

// JWTConfig signs access tokens with HS256, so Secret must carry at least
// 256 bits.
type JWTConfig struct {
	Secret             string        `koanf:"secret"               validate:"min=32"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"  validate:"gt=0"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire" validate:"gtfield=AccessTokenExpire"`
	Issuer             string        `koanf:"issuer"               validate:"required"`
	Audience           string        `koanf:"audience"             validate:"required"`
}

type PaginationConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size"     validate:"gtefield=DefaultPageSize"`
}

// RatingConfig selects how a second rating by the same user on the same
// book is handled: "reject" fails with a conflict, "overwrite" replaces
// the stored score.
type RatingConfig struct {
	DuplicatePolicy string `koanf:"duplicate_policy" validate:"oneof=reject overwrite"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window"   validate:"gt=0"`
	Burst    int           `koanf:"burst"    validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// SlogLevel maps Level onto slog. Unknown values fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate" validate:"gte=0,lte=1"`
}

// Load layers built in defaults, then the YAML file at configPath when set,
// then the environment. Each call returns a fresh value.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

var structRules = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	if err := structRules.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if !errors.As(err, &fields) {
			return err
		}

		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, fmt.Sprintf("%s fails %q", f.Namespace(), f.ActualTag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return errors.New("cors: wildcard origin cannot be combined with credentials")
	}

	if c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure {
		return errors.New("otel: insecure export is not allowed in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == envProduction
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == envDevelopment
}
