package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/farmassist/auth-service/internal/transport/http/middleware"
	"github.com/farmassist/auth-service/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Routes used by the original web client
	RegisterLegacy(w http.ResponseWriter, r *http.Request)
	LoginLegacy(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler

	RequestIDMW Middleware
	AuthMW      Middleware

	// Optional; nil disables them.
	RegisterLimitMW Middleware
	LoginLimitMW    Middleware
	CORSMW          Middleware
	BodyLimitMW     Middleware
	Metrics         http.Handler

	// TrustProxyHeaders lets X-Forwarded-For, X-Real-IP and True-Client-IP
	// replace RemoteAddr. Leave off unless a proxy strips client-sent values,
	// since the rate limiters key on the resulting address.
	TrustProxyHeaders bool
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(deps.RequestIDMW)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if deps.CORSMW != nil {
		r.Use(deps.CORSMW)
	}
	if deps.BodyLimitMW != nil {
		r.Use(deps.BodyLimitMW)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	registerMW := orNoop(deps.RegisterLimitMW)
	loginMW := orNoop(deps.LoginLimitMW)

	r.Route("/api", func(r chi.Router) {
		r.With(registerMW).Post("/auth/register", deps.Auth.Register)
		r.With(loginMW).Post("/auth/login", deps.Auth.Login)
		r.With(deps.AuthMW).Get("/users/me", deps.Auth.Me)
	})

	r.With(registerMW).Post("/registration", deps.Auth.RegisterLegacy)
	r.With(loginMW).Post("/login", deps.Auth.LoginLegacy)

	return r, nil
}

func orNoop(mw Middleware) Middleware {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusNotFound, "not_found", "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

func writeRouteError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	response.WriteJSON(w, status, response.ErrorBody{
		Error: response.ErrorPayload{
			Code:      code,
			Message:   msg,
			RequestID: response.RequestIDFromContext(r),
		},
	})
}
