package transport

import (
	"net/http"
	"strconv"
	"strings"

	"honey-shop/internal/middleware"
	"honey-shop/internal/repository"
	"honey-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler serves the public catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// List returns a page of products.
// Query: page, page_size, sort (name|price|stock|created_at), order (asc|desc).
// Defaults to newest first.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.ListParams{SortBy: q.Get("sort")}
	switch strings.ToLower(q.Get("order")) {
	case "asc":
		params.SortOrder = repository.SortOrderAsc
	case "desc":
		params.SortOrder = repository.SortOrderDesc
	}

	var err error
	if params.Page, err = optionalInt(q.Get("page")); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if params.PageSize, err = optionalInt(q.Get("page_size")); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page_size")
		return
	}

	page, err := h.productService.List(r.Context(), params)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "product")
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
