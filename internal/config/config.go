package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr           string
	TrustProxyHeaders  bool
	CORSAllowedOrigins []string
	RequestBodyMaxSize int64
	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Infrastructure
	DBAddr        string
	DBDebug       bool
	DBAutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitURL      string
	RabbitExchange string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:      getEnv("JWT_ISSUER", "farm-auth"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "farm.events"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	ttl, err := getDuration("ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	cfg.AccessTokenTTL = ttl

	cost, err := getInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	cfg.BcryptCost = cost

	// Postgres is optional in dev only; the in-memory store takes over.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBAddr != "" {
		if err := validatePostgresDSN(cfg.DBAddr); err != nil {
			return nil, err
		}
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.TrustProxyHeaders, err = getBool("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"))

	maxBody, err := getInt("REQUEST_BODY_MAX_SIZE", 1<<20)
	if err != nil {
		return nil, err
	}
	cfg.RequestBodyMaxSize = int64(maxBody)

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validatePostgresDSN(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid DB_ADDR: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("invalid DB_ADDR scheme %q: expected postgres", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("invalid DB_ADDR: missing database name")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
