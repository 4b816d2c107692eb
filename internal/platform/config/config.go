package config

import (
	"os"
	"strconv"
	"time"
)

// RedisConfig captures connection tuning for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server captures process level configuration.
type Server struct {
	Addr        string
	MetricsAddr string

	DatabaseURL string
	Redis       RedisConfig

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("REHOME_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	metricsAddr := os.Getenv("REHOME_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	jwtSigningKey := os.Getenv("REHOME_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}
	jwtIssuer := os.Getenv("REHOME_JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "rehome"
	}
	jwtAudience := os.Getenv("REHOME_JWT_AUDIENCE")
	if jwtAudience == "" {
		jwtAudience = "rehome-api"
	}

	return Server{
		Addr:        addr,
		MetricsAddr: metricsAddr,
		DatabaseURL: os.Getenv("REHOME_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REHOME_REDIS_URL"),
			PoolSize:     envInt("REHOME_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REHOME_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		JWTSigningKey:   jwtSigningKey,
		JWTIssuer:       jwtIssuer,
		JWTAudience:     jwtAudience,
		ShutdownTimeout: 10 * time.Second,
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
