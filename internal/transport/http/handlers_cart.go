package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shopfolio/internal/cart"
	"shopfolio/internal/docstore"
	dErrors "shopfolio/pkg/domain-errors"
	"shopfolio/pkg/platform/sentinel"
)

// AccessTokenValidator checks a bearer token and returns the user id.
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

type contextKeyUserID struct{}

// AuthenticatedUserID retrieves the user id set by RequireAuth.
func AuthenticatedUserID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyUserID{}).(string); ok {
		return id
	}
	return ""
}

// RequireAuth gates endpoints behind a bearer access token.
func RequireAuth(validator AccessTokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"request_id", RequestID(r.Context()),
					"error", err,
				)
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyUserID{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartHandler serves the authenticated user's mirrored cart document so other
// devices can pull and push the shared copy.
type CartHandler struct {
	docs   docstore.Store
	logger *slog.Logger
}

// NewCartHandler constructs the cart handler.
func NewCartHandler(docs docstore.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{docs: docs, logger: logger}
}

// Register mounts cart endpoints on the router. Routes are expected to be
// mounted behind RequireAuth.
func (h *CartHandler) Register(r chi.Router) {
	r.Get("/", h.handleGet)
	r.Put("/", h.handlePut)
}

const cartCollection = "carts"

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID := AuthenticatedUserID(r.Context())
	doc, err := h.docs.Get(r.Context(), cartCollection, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// An absent document is an empty cart, not an error.
			writeJSON(w, http.StatusOK, map[string]any{"items": []cart.LineItem{}})
			return
		}
		writeError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "cart is temporarily unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type putCartRequest struct {
	Items []cart.LineItem `json:"items"`
}

func (h *CartHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var req putCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	userID := AuthenticatedUserID(r.Context())
	err := h.docs.UpsertMerge(r.Context(), cartCollection, userID, docstore.Document{
		"items": req.Items,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "cart write failed",
			"request_id", RequestID(r.Context()),
			"user", userID,
			"error", err,
		)
		writeError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "cart is temporarily unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": req.Items})
}
