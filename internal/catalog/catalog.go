// Package catalog serves the storefront's read-only product set with
// client-style search, category filtering, sorting and pagination.
package catalog

import (
	"sort"
	"strings"

	"shopfolio/internal/ledger"
)

// Product is one storefront item.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Price         ledger.Cents `json:"price"`
	OriginalPrice ledger.Cents `json:"originalPrice"`
	Image         string       `json:"image"`
	Rating        float64      `json:"rating"`
	Reviews       int          `json:"reviews"`
	Category      string       `json:"category"`
	Description   string       `json:"description"`
	InStock       bool         `json:"inStock"`
}

// Sort orders for Query.
const (
	SortPriceAsc    = "price-asc"
	SortPriceDesc   = "price-desc"
	SortRatingDesc  = "rating-desc"
	SortReviewsDesc = "reviews-desc"
	SortNameAsc     = "name-asc"
)

// Query filters and orders the catalog. Zero values mean "no constraint".
type Query struct {
	Search   string
	Category string // "" or "All" matches every category
	Sort     string
	Page     int // 1-based; 0 disables pagination
	PageSize int
}

// Result is one page of matching products.
type Result struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// Catalog is an immutable product set.
type Catalog struct {
	products []Product
}

// New builds a catalog over the given products.
func New(products []Product) *Catalog {
	return &Catalog{products: products}
}

// Default returns the built-in sample catalog.
func Default() *Catalog {
	return New(sampleProducts)
}

// Categories returns the distinct category names, "All" first.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{"All"}
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Find returns the product with the given id.
func (c *Catalog) Find(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Query returns the products matching q.
func (c *Catalog) Query(q Query) Result {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if q.Category != "" && q.Category != "All" && p.Category != q.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			continue
		}
		matched = append(matched, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case SortRatingDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	case SortReviewsDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Reviews > matched[j].Reviews })
	case SortNameAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	res := Result{Total: len(matched), Page: 1, Pages: 1}
	if q.Page <= 0 || q.PageSize <= 0 {
		res.Products = matched
		return res
	}

	res.Pages = (len(matched) + q.PageSize - 1) / q.PageSize
	if res.Pages == 0 {
		res.Pages = 1
	}
	page := q.Page
	if page > res.Pages {
		page = res.Pages
	}
	res.Page = page
	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	res.Products = matched[start:end]
	return res
}
