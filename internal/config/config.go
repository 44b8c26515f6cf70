package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go-hris-payroll/internal/shared/connection"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	Postgres connection.PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Payroll  PayrollConfig
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker             string
	ConsumerGroup      string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxLease        time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	RBACModelPath  string
	RBACPolicyPath string
	// AuthzMode is "enforce" (default) or "permissive".
	AuthzMode string
}

type PayrollConfig struct {
	DefaultTaxCountry string
	BulkConcurrency   int
	TaxBracketsPath   string
	CurrenciesPath    string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		Postgres: connection.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "hris"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Broker:             getEnv("KAFKA_BROKER", "localhost:9092"),
			ConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "payroll-service"),
			OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			OutboxBatchSize:    getInt("OUTBOX_BATCH_SIZE", 50),
			OutboxLease:        getDuration("OUTBOX_LEASE", time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			RBACModelPath:  getEnv("RBAC_MODEL_PATH", "config/rbac_model.conf"),
			RBACPolicyPath: getEnv("RBAC_POLICY_PATH", "config/rbac_policy.csv"),
			AuthzMode:      strings.ToLower(getEnv("AUTHZ_MODE", "enforce")),
		},
		Payroll: PayrollConfig{
			DefaultTaxCountry: strings.ToUpper(getEnv("PAYROLL_DEFAULT_TAX_COUNTRY", "US")),
			BulkConcurrency:   getInt("PAYROLL_BULK_CONCURRENCY", 4),
			TaxBracketsPath:   getEnv("TAX_BRACKETS_PATH", "config/tax_brackets.yaml"),
			CurrenciesPath:    getEnv("CURRENCIES_PATH", "config/currencies.yaml"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
