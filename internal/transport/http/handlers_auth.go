package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"shopfolio/internal/identity"
	"shopfolio/internal/platform/metrics"
	dErrors "shopfolio/pkg/domain-errors"
)

// AuthHandler exposes the directory provider's account operations.
type AuthHandler struct {
	provider identity.Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(provider identity.Provider, logger *slog.Logger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{provider: provider, logger: logger, metrics: m}
}

// Register mounts auth endpoints on the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/request-password-reset", h.handleRequestPasswordReset)
	r.Post("/api/auth/reset-password", h.handleResetPassword)
	r.Post("/api/auth/verify-email", h.handleVerifyEmail)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	message, err := h.provider.Register(r.Context(), identity.Profile{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("register", "failure").Inc()
		writeError(w, err)
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	h.logger.InfoContext(r.Context(), "account registered",
		"request_id", RequestID(r.Context()),
		"email", req.Email,
	)
	writeJSON(w, http.StatusCreated, map[string]string{"message": message})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         identity.User `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	login, err := h.provider.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		writeError(w, err)
		return
	}

	ua := useragent.New(r.UserAgent())
	browser, version := ua.Browser()
	h.metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	h.logger.InfoContext(r.Context(), "login",
		"request_id", RequestID(r.Context()),
		"user", login.User.ID,
		"browser", browser,
		"browser_version", version,
		"os", ua.OS(),
		"mobile", ua.Mobile(),
	)
	writeJSON(w, http.StatusOK, loginResponse{
		User:         *login.User,
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.provider.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset email sent! Check your inbox.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Token == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "token is required"))
		return
	}
	if err := h.provider.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset. You can now log in.",
	})
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Token == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "token is required"))
		return
	}
	if err := h.provider.VerifyEmail(r.Context(), req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Email verified successfully!",
	})
}
