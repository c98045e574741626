package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database
	DBDriver          string        `yaml:"db_driver"`
	DBHost            string        `yaml:"db_host"`
	DBPort            string        `yaml:"db_port"`
	DBUser            string        `yaml:"db_user"`
	DBPassword        string        `yaml:"db_password"`
	DBName            string        `yaml:"db_name"`
	DBSSLMode         string        `yaml:"db_sslmode"`
	DBMaxOpenConns    int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns    int           `yaml:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime"`

	// JWT
	JWTSecret       string        `yaml:"jwt_secret"`
	JWTAccessExpiry time.Duration `yaml:"jwt_access_expiry"`

	// Server
	Port             string `yaml:"port"`
	CORSOrigins      string `yaml:"cors_origins"`
	RateLimitPerMin  int    `yaml:"rate_limit_per_min"`
	AuthLimitPerMin  int    `yaml:"auth_limit_per_min"`
	LogRetentionDays int    `yaml:"log_retention_days"`

	// Message broker (workflow events); empty URL disables publishing
	RabbitMQURL   string `yaml:"rabbitmq_url"`
	RabbitMQQueue string `yaml:"rabbitmq_queue"`

	// Object storage (hazard images); empty endpoint disables image routes
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`

	// Error tracking
	SentryDSN string `yaml:"sentry_dsn"`
	AppEnv    string `yaml:"app_env"`
}

func defaults() *Config {
	return &Config{
		DBDriver:          "mysql",
		DBHost:            "localhost",
		DBPort:            "3306",
		DBUser:            "miat",
		DBName:            "miat_action_log",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    50,
		DBMaxIdleConns:    25,
		DBConnMaxLifetime: 30 * time.Minute,

		JWTAccessExpiry: 12 * time.Hour,

		Port:             "8080",
		CORSOrigins:      "*",
		RateLimitPerMin:  120,
		AuthLimitPerMin:  10,
		LogRetentionDays: 30,

		RabbitMQQueue: "miat.response.events",
		MinioBucket:   "miat-hazard-images",
		AppEnv:        "development",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// MIAT_CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("MIAT_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile is Load with an explicit overlay path (used by miatctl --config).
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)
	c.DBMaxOpenConns = getInt("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns)
	c.DBMaxIdleConns = getInt("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns)
	c.DBConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", c.DBConnMaxLifetime)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTAccessExpiry = getDuration("JWT_ACCESS_EXPIRY", c.JWTAccessExpiry)

	c.Port = getEnv("PORT", c.Port)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.RateLimitPerMin = getInt("RATE_LIMIT_PER_MIN", c.RateLimitPerMin)
	c.AuthLimitPerMin = getInt("AUTH_LIMIT_PER_MIN", c.AuthLimitPerMin)
	c.LogRetentionDays = getInt("LOG_RETENTION_DAYS", c.LogRetentionDays)

	c.RabbitMQURL = getEnv("RABBITMQ_URL", c.RabbitMQURL)
	c.RabbitMQQueue = getEnv("RABBITMQ_QUEUE", c.RabbitMQQueue)

	c.MinioEndpoint = getEnv("MINIO_ENDPOINT", c.MinioEndpoint)
	c.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", c.MinioAccessKey)
	c.MinioSecretKey = getEnv("MINIO_SECRET_KEY", c.MinioSecretKey)
	c.MinioBucket = getEnv("MINIO_BUCKET", c.MinioBucket)
	c.MinioUseSSL = getBool("MINIO_USE_SSL", c.MinioUseSSL)

	c.SentryDSN = getEnv("SENTRY_DSN", c.SentryDSN)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return "host=" + c.DBHost +
			" user=" + c.DBUser +
			" password=" + c.DBPassword +
			" dbname=" + c.DBName +
			" port=" + c.DBPort +
			" sslmode=" + c.DBSSLMode +
			" TimeZone=UTC"
	case "sqlite":
		return c.DBName
	default:
		return c.DBUser + ":" + c.DBPassword +
			"@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
			"?charset=utf8mb4&parseTime=True&loc=UTC"
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
