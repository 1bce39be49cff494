package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aktywni/backend/internal/models"
	"go.uber.org/zap"
)

// forgotPasswordMessage is the uniform response body for every forgot-password
// request, matched or not
const forgotPasswordMessage = "If the email exists, a reset link has been sent"

// PasswordResetService is the interface that wraps methods for the password reset flow.
type PasswordResetService interface {
	// Method Forgot issues a reset token for the account behind "email".
	//
	// It returns the raw token when the email matched an account and ""
	// otherwise. It never returns an error: store and delivery failures
	// degrade to the unmatched case so the response stays uniform.
	Forgot(ctx context.Context, email string) string
	// Method Reset redeems "token" and replaces the account credential with
	// the hashed form of "newPassword".
	//
	// Unknown tokens are reported through services.ErrInvalidToken, expired
	// ones through services.ErrTokenExpired.
	Reset(ctx context.Context, token, newPassword string) error
}

// PasswordResetHandler handles HTTP requests for the password reset flow
type PasswordResetHandler struct {
	BaseHandler
	service PasswordResetService
	// tokenInResponse echoes the raw token in the forgot response body.
	// Demo installations only.
	tokenInResponse bool
}

// NewPasswordResetHandler creates a new password reset handler
func NewPasswordResetHandler(svc PasswordResetService, tokenInResponse bool, logger *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		service:         svc,
		tokenInResponse: tokenInResponse,
		BaseHandler:     BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all password reset handler routes
func (h *PasswordResetHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/password", func(r chi.Router) {
		r.Post("/forgot", h.Forgot)
		r.Post("/reset", h.Reset)
	})
}

// Forgot handles POST /api/password/forgot
// @Summary Request a password reset
// @Description Issue a reset link for the account behind the email. The response is identical whether or not the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Forgot-password payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/password/forgot [post]
func (h *PasswordResetHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	// A missing email gets the same uniform response as an unknown one
	var token string
	if req.Email != "" {
		token = h.service.Forgot(r.Context(), req.Email)
	}

	resp := map[string]string{"message": forgotPasswordMessage}
	if h.tokenInResponse && token != "" {
		resp["token"] = token
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/password/reset
// @Summary Reset a password
// @Description Redeem a reset token and set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset-password payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/password/reset [post]
func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Reset(r.Context(), req.Token, req.NewPassword); err != nil {
		h.respondServiceError(w, err, "failed to reset password")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
