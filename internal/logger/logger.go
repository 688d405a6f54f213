package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	pkgctx "github.com/farmassist/auth-service/internal/pkg/context"
)

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	// "json" or "console"
	if getenv("LOG_FORMAT", "console") == "json" {
		Logger = zerolog.New(w).With().Timestamp().Str("service", "farm-auth").Logger().Level(level)
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}

	zlog.Logger = Logger
}

// WithCtx returns the package logger enriched with the request id and the
// authenticated farmer carried by ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	l := Logger
	rid := pkgctx.GetRequestID(ctx)
	uid := pkgctx.GetFarmerID(ctx)
	if rid == "" && uid == "" {
		return &l
	}
	c := l.With()
	if rid != "" {
		c = c.Str("request_id", rid)
	}
	if uid != "" {
		c = c.Str("user_id", uid)
	}
	l = c.Logger()
	return &l
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
