package config

import (
	"os"
	"strconv"

	"ride-sharing/internal/mylogger"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	Auth     *Authconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	MaxRetries int
}

type RabbitMqconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	VHost      string
	MaxRetries int
}

type Serviceconfig struct {
	AuthServicePort   string
	RideServicePort   string
	DriverServicePort string
}

type Authconfig struct {
	// JWTSecret is only used by the auth service itself; the ledgers
	// verify tokens through the gateway URL below.
	JWTSecret        string
	AuthServiceURL   string
	VerifyTimeoutSec int
}

type Loggerconfig struct {
	Level string
}

func New(log mylogger.Logger) *Config {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			log.Warn("env var not set, using default", "key", key, "default", def)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			log.Warn("env var not set, using default", "key", key, "default", def)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			log.Warn("env var is not a number, using default", "key", key, "default", def)
			return def
		}
		return val
	}

	return &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "rideshare_user"),
			Password:   getEnv("DB_PASSWORD", "rideshare_pass"),
			Database:   getEnv("DB_NAME", "rideshare_db"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		RabbitMq: &RabbitMqconfig{
			Host:       getEnv("RABBITMQ_HOST", "localhost"),
			Port:       getEnvInt("RABBITMQ_PORT", 5672),
			User:       getEnv("RABBITMQ_USER", "guest"),
			Password:   getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:      getEnv("RABBITMQ_VHOST", ""),
			MaxRetries: getEnvInt("RABBITMQ_MAX_RETRIES", 5),
		},
		Srv: &Serviceconfig{
			AuthServicePort:   getEnv("AUTH_SERVICE_PORT", "3000"),
			RideServicePort:   getEnv("RIDE_SERVICE_PORT", "3001"),
			DriverServicePort: getEnv("DRIVER_SERVICE_PORT", "3002"),
		},
		Auth: &Authconfig{
			JWTSecret:        getEnv("JWT_SECRET", "dev-only-secret"),
			AuthServiceURL:   getEnv("AUTH_SERVICE_URL", "http://localhost:3000"),
			VerifyTimeoutSec: getEnvInt("AUTH_VERIFY_TIMEOUT_SEC", 5),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}
}
