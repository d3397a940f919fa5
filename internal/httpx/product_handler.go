package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Yatin2505/E-Commerce1-backend/internal/catalog"
	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// CatalogService is what the handler needs from the catalog.
type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter catalog.ListFilter) (*catalog.ListResult, error)
	TopRated(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	AddReview(ctx context.Context, productID, userID, userName string, rating int, comment string) error
}

type ProductHandler struct {
	products CatalogService
}

func NewProductHandler(products CatalogService) *ProductHandler {
	return &ProductHandler{products: products}
}

type ProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

type ReviewRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ListProductsResponseDTO struct {
	Products []*domain.Product `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int64             `json:"total"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	result, err := h.products.ListProducts(r.Context(), catalog.ListFilter{
		Keyword:  r.URL.Query().Get("keyword"),
		Category: domain.Category(r.URL.Query().Get("category")),
		Page:     page,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ListProductsResponseDTO{
		Products: result.Products,
		Page:     result.Page,
		Pages:    result.Pages,
		Total:    result.Total,
	})
}

func (h *ProductHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.TopRated(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		Image:       req.Image,
		Stock:       req.Stock,
		CreatedBy:   identity.UserID,
	}

	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product := &domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		Image:       req.Image,
		Stock:       req.Stock,
	}

	if err := h.products.UpdateProduct(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.products.AddReview(r.Context(), chi.URLParam(r, "id"), identity.UserID, identity.Name, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "review added"})
}
