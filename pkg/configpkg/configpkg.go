// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverMemory   = "memory"
)

// Supported lock backends.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// Supported token types.
const (
	TokenTypePaseto = "paseto"
	TokenTypeJWT    = "jwt"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	Environement        string        `mapstructure:"GO_ENV"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBSource            string        `mapstructure:"DB_SOURCE"`
	TokenType           string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	LockBackend         string        `mapstructure:"LOCK_BACKEND"`
	LockTimeout         time.Duration `mapstructure:"LOCK_TIMEOUT"`
	LockExpiry          time.Duration `mapstructure:"LOCK_EXPIRY"`
	RedisAddress        string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int           `mapstructure:"REDIS_DB"`
	AMQPURL             string        `mapstructure:"AMQP_URL"`
	AMQPExchange        string        `mapstructure:"AMQP_EXCHANGE"`
}

var defaults = map[string]any{
	"GO_ENV":                "production",
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"DB_DRIVER":             DriverPostgres,
	"DB_SOURCE":             "",
	"TOKEN_TYPE":            TokenTypePaseto,
	"TOKEN_SYMMETRIC_KEY":   "",
	"ACCESS_TOKEN_DURATION": 15 * time.Minute,
	"LOCK_BACKEND":          LockBackendMemory,
	"LOCK_TIMEOUT":          5 * time.Second,
	"LOCK_EXPIRY":           10 * time.Second,
	"REDIS_ADDRESS":         "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"AMQP_URL":              "",
	"AMQP_EXCHANGE":         "ledger.events",
}

// Load read configuration from file or environment variables.
//
// A missing app.env is not an error, the defaults and environment are used instead.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// Validate checks that the configuration can be used to start the application.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverPGX:
		if c.DBSource == "" {
			return fmt.Errorf("DB_SOURCE is required for driver %q", c.DBDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.TokenType {
	case TokenTypePaseto, TokenTypeJWT:
	default:
		return fmt.Errorf("unsupported TOKEN_TYPE %q", c.TokenType)
	}

	switch c.LockBackend {
	case LockBackendMemory:
	case LockBackendRedis:
		if c.RedisAddress == "" {
			return errors.New("REDIS_ADDRESS is required for redis lock backend")
		}
	default:
		return fmt.Errorf("unsupported LOCK_BACKEND %q", c.LockBackend)
	}

	if c.AccessTokenDuration <= 0 {
		return errors.New("ACCESS_TOKEN_DURATION must be positive")
	}

	if c.LockTimeout <= 0 {
		return errors.New("LOCK_TIMEOUT must be positive")
	}

	if c.LockExpiry <= 0 {
		return errors.New("LOCK_EXPIRY must be positive")
	}

	return nil
}
