package http

import (
	"context"
	"net/http"
	"time"

	"github.com/kechcole/Blog-App/internal/auth/service"
	commonhttp "github.com/kechcole/Blog-App/internal/common/http"
	"github.com/kechcole/Blog-App/internal/common/jwtverify"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
}

type Handler struct {
	auth     *service.AuthService
	errs     *commonhttp.ErrorHandler
	log      *logger.Logger
	timeout  time.Duration
	jwtGuard func(http.Handler) http.Handler
}

func NewHandler(auth *service.AuthService, jwtSecret string, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		errs:     commonhttp.NewErrorHandler(log),
		log:      log,
		timeout:  timeout,
		jwtGuard: jwtverify.Middleware(jwtSecret, log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.Handle("/api/auth/account", h.jwtGuard(http.HandlerFunc(h.deleteAccount)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, ok := commonhttp.ValidateStruct(req); !ok {
		commonhttp.WriteValidationError(w, details)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, tokenResponse{
		Token:     result.AccessToken,
		UserID:    result.UserID,
		ExpiresAt: result.ExpiresAt.Unix(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, ok := commonhttp.ValidateStruct(req); !ok {
		commonhttp.WriteValidationError(w, details)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     result.AccessToken,
		UserID:    result.UserID,
		ExpiresAt: result.ExpiresAt.Unix(),
	})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.auth.DeleteAccount(ctx, claims.UserID); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}
