package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	Port           int
	StorageBackend string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	WorkerCount      int
	AuditConcurrency int

	// AMQPURL empty disables event publication.
	AMQPURL      string
	AMQPExchange string

	LogLevel string
}

// ProcessEnvironmentVariables reads the configuration from the environment,
// after loading a .env file from the working directory if there is one.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             9446,
		StorageBackend:   StorageBackendPostgres,
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		WorkerCount:      4,
		AuditConcurrency: 4,
		AMQPExchange:     "finance",
		LogLevel:         "info",
	}

	var errs []error
	env.Port = getEnvInt("PORT", env.Port, &errs)
	env.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", env.StorageBackend))
	env.PostgresAddress = getEnv("POSTGRES_ADDRESS", env.PostgresAddress)
	env.PostgresPort = getEnv("POSTGRES_PORT", env.PostgresPort)
	env.PostgresDB = getEnv("POSTGRES_DB", env.PostgresDB)
	env.PostgresUsername = getEnv("POSTGRES_USERNAME", env.PostgresUsername)
	env.PostgresPassword = getEnv("POSTGRES_PASSWORD", env.PostgresPassword)
	env.WorkerCount = getEnvInt("WORKER_COUNT", env.WorkerCount, &errs)
	env.AuditConcurrency = getEnvInt("AUDIT_CONCURRENCY", env.AuditConcurrency, &errs)
	env.AMQPURL = getEnv("AMQP_URL", env.AMQPURL)
	env.AMQPExchange = getEnv("AMQP_EXCHANGE", env.AMQPExchange)
	env.LogLevel = getEnv("LOG_LEVEL", env.LogLevel)

	if err := errors.Join(append(errs, env.Validate())...); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.PostgresAddress == "" {
			errs = append(errs, errors.New("POSTGRES_ADDRESS is required for the postgres backend"))
		}
		if c.PostgresDB == "" {
			errs = append(errs, errors.New("POSTGRES_DB is required for the postgres backend"))
		}
	case StorageBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageBackendPostgres, StorageBackendMemory, c.StorageBackend))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.AuditConcurrency < 1 {
		errs = append(errs, fmt.Errorf("AUDIT_CONCURRENCY must be positive, got %d", c.AuditConcurrency))
	}
	if c.AMQPURL != "" && c.AMQPExchange == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) PostgresConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); len(v) != 0 {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if len(v) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}
