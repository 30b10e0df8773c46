package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Reservation ReservationConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type ReservationConfig struct {
	// PendingTimeout is how long an unpaid hold survives before the
	// sweep times it out.
	PendingTimeout time.Duration
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	pendingTimeoutMin, err := intEnv("PENDING_TIMEOUT_MIN", 30)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sweepIntervalSec, err := intEnv("SWEEP_INTERVAL_SEC", 60)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reservationCfg := ReservationConfig{
		PendingTimeout: time.Duration(pendingTimeoutMin) * time.Minute,
		SweepInterval:  time.Duration(sweepIntervalSec) * time.Second,
	}

	rateLimitMax, err := intEnv("RATE_LIMIT_MAX", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimitWindowSec, err := intEnv("RATE_LIMIT_WINDOW_SEC", 60)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimitCfg := RateLimitConfig{
		Max:    rateLimitMax,
		Window: time.Duration(rateLimitWindowSec) * time.Second,
	}

	return &Config{
		Server:      serverCfg,
		Postgres:    postgresCfg,
		Redis:       redisCfg,
		Reservation: reservationCfg,
		RateLimit:   rateLimitCfg,
	}, nil
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
