package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/service"
)

type productService interface {
	CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductHandler struct {
	products productService
}

func NewProductHandler(products productService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     decimal.Decimal `json:"stock"`
}

func (r productRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Unit == "" {
		errs = append(errs, FieldError{Field: "unit", Message: "required"})
	}
	if r.UnitPrice.Sign() < 0 {
		errs = append(errs, FieldError{Field: "unit_price", Message: "must be non-negative"})
	}
	if r.Stock.Sign() < 0 {
		errs = append(errs, FieldError{Field: "stock", Message: "must be non-negative"})
	}
	return errs
}

type productDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     decimal.Decimal `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

func toProductDTO(p *domain.Product) productDTO {
	return productDTO{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), service.ProductInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create product", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toProductDTO(product))
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list products", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]productDTO, len(products))
	for i := range products {
		dtos[i] = toProductDTO(&products[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toProductDTO(product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, service.ProductInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update product", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toProductDTO(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
