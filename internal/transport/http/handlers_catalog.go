package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shopfolio/internal/catalog"
	dErrors "shopfolio/pkg/domain-errors"
)

// CatalogHandler serves the product listing the storefront renders.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler constructs the catalog handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Register mounts catalog endpoints on the router.
func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/api/products", h.handleQuery)
	r.Get("/api/products/{id}", h.handleGet)
	r.Get("/api/categories", h.handleCategories)
}

func (h *CatalogHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		query.PageSize = size
	}
	writeJSON(w, http.StatusOK, h.catalog.Query(query))
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, ok := h.catalog.Find(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "product not found"))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": h.catalog.Categories()})
}
