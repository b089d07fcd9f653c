package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopfolio/internal/email"
	dErrors "shopfolio/pkg/domain-errors"
)

// EmailHandler exposes the transactional email relay. Responses keep the
// shape the storefront client expects: {"success":true,"messageId":...} on
// dispatch and {"error":...} on failure.
type EmailHandler struct {
	service *email.Service
	logger  *slog.Logger
}

// NewEmailHandler constructs the email handler.
func NewEmailHandler(service *email.Service, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{service: service, logger: logger}
}

// Register mounts email endpoints on the router.
func (h *EmailHandler) Register(r chi.Router) {
	r.Post("/api/email/send", h.handleSend)
	r.Get("/api/email/verify-smtp", h.handleVerifySMTP)
}

func (h *EmailHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var msg email.Message
	if err := decodeJSON(r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.service.Send(r.Context(), msg)
	if err != nil {
		status := http.StatusInternalServerError
		if dErrors.HasCode(err, dErrors.CodeBadRequest) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": dErrors.Message(err)})
		return
	}

	resp := map[string]any{"success": true, "messageId": result.MessageID}
	if result.Fallback {
		resp["fallback"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EmailHandler) handleVerifySMTP(w http.ResponseWriter, r *http.Request) {
	diag := h.service.VerifySMTP(r.Context())
	status := http.StatusOK
	if !diag.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, diag)
}
