package http_handlers

import (
	"net/http"

	"github.com/farmassist/auth-service/internal/application/auth"
	"github.com/farmassist/auth-service/internal/domain"
	"github.com/farmassist/auth-service/internal/logger"
	"github.com/farmassist/auth-service/internal/transport/http/dto"
	"github.com/farmassist/auth-service/internal/transport/http/middleware"
	"github.com/farmassist/auth-service/internal/transport/http/response"
)

const registeredMessage = "Registration successful"

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	u, ok := h.register(w, r, response.WriteError)
	if !ok {
		return
	}

	response.Created(w, dto.RegisterData{
		Message: registeredMessage,
		User:    dto.NewUserView(u),
	})
}

// RegisterLegacy handles POST /registration for the original web client,
// which reads a flat {"message": ...} body on success and on failure.
func (h *AuthHandler) RegisterLegacy(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.register(w, r, response.WriteLegacyError); !ok {
		return
	}
	response.WriteJSON(w, http.StatusCreated, dto.LegacyMessage{Message: registeredMessage})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	res, ok := h.login(w, r, response.WriteError)
	if !ok {
		return
	}

	response.OK(w, dto.LoginData{
		Token:     res.Tokens.AccessToken,
		TokenType: res.Tokens.TokenType,
		ExpiresIn: res.Tokens.ExpiresIn,
		ExpiresAt: res.Tokens.ExpiresAt,
	})
}

// LoginLegacy handles POST /login; the original client reads a flat {"token": ...}
// and a flat {"message": ...} on failure.
func (h *AuthHandler) LoginLegacy(w http.ResponseWriter, r *http.Request) {
	res, ok := h.login(w, r, response.WriteLegacyError)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, dto.LegacyToken{Token: res.Tokens.AccessToken})
}

// Me handles GET /api/users/me. Requires middleware.Auth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		// a valid token for a user that no longer resolves is treated as a bad token
		if domain.Is(err, "user_not_found") {
			err = domain.ErrTokenInvalid()
		}
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

type errWriter func(http.ResponseWriter, *http.Request, error)

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, writeErr errWriter) (domain.User, bool) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.RegistrationsTotal.WithLabelValues("invalid_request").Inc()
		writeErr(w, r, err)
		return domain.User{}, false
	}

	if err := req.Validate(); err != nil {
		middleware.RegistrationsTotal.WithLabelValues("invalid_request").Inc()
		writeErr(w, r, err)
		return domain.User{}, false
	}

	u, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
		FarmName:    req.FarmName,
		FarmSize:    req.FarmSize,
		FarmType:    req.FarmType,
	})
	if err != nil {
		middleware.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		writeErr(w, r, err)
		return domain.User{}, false
	}

	middleware.RegistrationsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("user_registered")

	return u, true
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, writeErr errWriter) (auth.LoginResult, bool) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		writeErr(w, r, err)
		return auth.LoginResult{}, false
	}

	if err := req.Validate(); err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		writeErr(w, r, err)
		return auth.LoginResult{}, false
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		writeErr(w, r, err)
		return auth.LoginResult{}, false
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	return res, true
}

func registerOutcome(err error) string {
	switch {
	case domain.Is(err, "email_already_exists"):
		return "duplicate"
	case domain.KindOf(err) == domain.KindValidation:
		return "invalid_request"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	if domain.Is(err, "invalid_credentials") {
		return "invalid_credentials"
	}
	return "error"
}
