// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend names accepted by INTAKE_STORAGE.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config captures server-level configuration.
type Config struct {
	Addr            string
	Storage         string
	PostgresURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the audit event pipeline settings. Empty brokers disable
// Kafka publishing; events then flow to the in-process audit worker only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv reads configuration from the environment, applying development
// defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:            envString("INTAKE_ADDR", ":8080"),
		Storage:         envString("INTAKE_STORAGE", StorageMemory),
		PostgresURL:     os.Getenv("INTAKE_POSTGRES_URL"),
		ShutdownTimeout: envDuration("INTAKE_SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("INTAKE_REDIS_URL"),
			PoolSize:     envInt("INTAKE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("INTAKE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("INTAKE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("INTAKE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("INTAKE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Topic: envString("INTAKE_KAFKA_TOPIC", "intake.audit"),
		},
	}
	if brokers := os.Getenv("INTAKE_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
