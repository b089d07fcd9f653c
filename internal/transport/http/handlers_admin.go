package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shopfolio/internal/admin"
	"shopfolio/internal/identity"
)

// AdminHandler exposes the user-management console. Routes are expected to be
// mounted behind RequireAdminToken.
type AdminHandler struct {
	service *admin.Service
	logger  *slog.Logger
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(service *admin.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// Register mounts console endpoints on the router.
func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/users", h.handleListUsers)
	r.Patch("/users/{id}", h.handleUpdateUser)
	r.Delete("/users/{id}", h.handleDeleteUser)
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := admin.Query{
		Search:   q.Get("search"),
		Role:     identity.Role(q.Get("role")),
		Status:   identity.Status(q.Get("status")),
		SortBy:   q.Get("sort"),
		SortDesc: q.Get("order") == "desc",
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		query.PageSize = size
	}

	page, err := h.service.ListUsers(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type updateUserRequest struct {
	Role   identity.Role   `json:"role"`
	Status identity.Status `json:"status"`
}

func (h *AdminHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	row, err := h.service.UpdateUser(r.Context(), id, req.Role, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "console user update",
		"request_id", RequestID(r.Context()),
		"user", id,
	)
	writeJSON(w, http.StatusOK, row)
}

func (h *AdminHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
