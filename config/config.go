package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	val "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	EnvDevelopment = "development"
	EnvQA          = "qa"
	EnvProduction  = "production"
)

const (
	RateLimiterBackendMemory = "memory"
	RateLimiterBackendRedis  = "redis"
)

type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"     validate:"required"`
	Port     string `envconfig:"PORT"     validate:"required,numeric"`
	Username string `envconfig:"USER"     validate:"required"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"     validate:"required"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN builds the postgres connection URL for the endpoint. An optional prefix is
// prepended to the database name.
func (p PostgresEndpoint) DSN(prefix string) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.Username, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   prefix + p.Name,
	}

	query := url.Values{}
	query.Set("sslmode", p.SSLMode)

	if p.Timezone != "" {
		query.Set("timezone", p.Timezone)
	}

	dsn.RawQuery = query.Encode()

	return dsn.String()
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development" validate:"required,oneof=development qa production"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"        validate:"required,numeric"`
		Host     string `envconfig:"HOST"      default:"0.0.0.0"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"  validate:"gte=0"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10" validate:"gte=0"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"     default:"Todo List API"`
		Version  string `envconfig:"VERSION"  default:"1.0.0"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Accept,Authorization,Content-Type,X-Request-ID"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PATCH,DELETE,OPTIONS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
			Enable           bool     `envconfig:"ENABLE"          default:"true"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable         bool   `envconfig:"ENABLE"`
			Backend        string `envconfig:"BACKEND"         default:"memory" validate:"oneof=memory redis"`
			MaxRequests    int    `envconfig:"MAX_REQUESTS"    default:"120"    validate:"gte=1"`
			WindowSeconds  int    `envconfig:"WINDOW_SECONDS"  default:"60"     validate:"gte=1"`
			CircuitBreaker struct {
				MaxFailures int `envconfig:"MAX_FAILURES" default:"5"  validate:"gte=1"`
				OpenSeconds int `envconfig:"OPEN_SECONDS" default:"30" validate:"gte=1"`
			} `envconfig:"CIRCUIT_BREAKER"`
		} `envconfig:"RATE_LIMITER"`
		Pagination struct {
			DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"20"  validate:"gte=1,ltefield=MaxPageSize"`
			MaxPageSize     int `envconfig:"MAX_PAGE_SIZE"     default:"100" validate:"gte=1"`
		} `envconfig:"PAGINATION"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"     default:"localhost"`
				Port     string `envconfig:"PORT"     default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"       default:"5"                 validate:"gte=1"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"2"                 validate:"gte=0"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == EnvDevelopment
}

// UsesRedis reports whether any enabled component depends on redis.
func (c *Config) UsesRedis() bool {
	return c.App.RateLimiter.Enable && c.App.RateLimiter.Backend == RateLimiterBackendRedis
}

// Validate checks the loaded configuration. It is called once at process startup so
// that a bad store connection string stops the service before it serves traffic.
func (c *Config) Validate() error {
	if err := val.New(val.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, endpoint := range map[string]PostgresEndpoint{
		"read":  c.DB.Postgres.Read,
		"write": c.DB.Postgres.Write,
	} {
		if _, err := pq.ParseURL(endpoint.DSN(c.DB.Postgres.Prefix)); err != nil {
			return fmt.Errorf("invalid %s postgres connection string: %w", name, err)
		}
	}

	return nil
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
