package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmassist/auth-service/internal/application/auth"
	"github.com/farmassist/auth-service/internal/config"
	"github.com/farmassist/auth-service/internal/infrastructure/db/postgres"
	"github.com/farmassist/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/farmassist/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/farmassist/auth-service/internal/infrastructure/redis"
	"github.com/farmassist/auth-service/internal/infrastructure/security"
	"github.com/farmassist/auth-service/internal/logger"
	http_handlers "github.com/farmassist/auth-service/internal/transport/http/handlers"
	"github.com/farmassist/auth-service/internal/transport/http/middleware"
	"github.com/farmassist/auth-service/internal/transport/http/response"
	"github.com/farmassist/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	auth.EventPublisher
	Close() error
}

// Per caller identity, per route.
const (
	registerLimit  = 5
	loginLimit     = 10
	rateLimitEvery = time.Minute
)

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) credential store
	var (
		userRepo auth.UserRepo
		checks   []http_handlers.ReadinessCheck
		seedRepo postgres.SeederRepo
	)
	if cfg.DBAddr != "" {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(fmt.Errorf("db connect: %w", err))
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBAutoMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := deps.Migrate(ctx, db)
			cancel()
			if err != nil {
				return fail(fmt.Errorf("db migrate: %w", err))
			}
			logger.Logger.Info().Msg("db migrations applied")
		}

		pgRepo := postgres.NewUserRepo(db)
		userRepo, seedRepo = pgRepo, pgRepo
		checks = append(checks, http_handlers.ReadinessCheck{Name: "postgres", Check: db.PingContext})
	} else {
		// config.Load only allows this in dev
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory credential store")
		memRepo := memory.NewUserRepo()
		userRepo, seedRepo = memRepo, memRepo
	}

	// 2) redis (best-effort)
	var redisCli RedisClient
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limiting")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(fmt.Errorf("rabbitmq connect: %w", err))
		}
	}

	// 4) security
	logger.Logger.Info().
		Str("issuer", cfg.JWTIssuer).
		Int("bcrypt_cost", cfg.BcryptCost).
		Dur("access_ttl", cfg.AccessTokenTTL).
		Msg("initializing security")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (dev only)
	if cfg.IsDev() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		postgres.SeedUsers(ctx, seedRepo, hasher)
		cancel()
	}

	// 5) service
	authSvc := auth.NewService(userRepo, hasher, signer, pub, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	})

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)

	var limiter *redis.FixedWindowLimiter
	if rc, ok := redisCli.(*redis.Client); ok {
		limiter = redis.NewFixedWindowLimiter(rc)
		checks = append(checks, http_handlers.ReadinessCheck{Name: "redis", Check: rc.Ping})
	}
	healthH := http_handlers.NewHealthHandler(checks...)

	rl := func(key string, limit int) func(http.Handler) http.Handler {
		fw := middleware.FixedWindowConfig{RouteKey: key, Limit: limit, Window: rateLimitEvery}
		if limiter == nil {
			return middleware.RateLimitInMemory(fw, response.WriteError)
		}
		return middleware.RateLimitFixedWindow(limiter, fw, response.WriteError)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Auth:        authH,
		RequestIDMW: middleware.RequestID,
		AuthMW:      middleware.Auth(signer, response.WriteError),

		RegisterLimitMW: rl("auth.register", registerLimit),
		LoginLimitMW:    rl("auth.login", loginLimit),
		CORSMW:          middleware.CORS(cfg.CORSAllowedOrigins),
		BodyLimitMW:     middleware.BodyLimit(cfg.RequestBodyMaxSize),
		Metrics:         promhttp.Handler(),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
