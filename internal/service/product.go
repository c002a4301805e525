package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/logging"
)

type ProductInput struct {
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
	Stock     decimal.Decimal
}

type ProductService struct {
	products productRepository
}

func NewProductService(products productRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.UnitPrice.Sign() < 0 || in.Stock.Sign() < 0 {
		return nil, fmt.Errorf("CreateProduct: %w", domain.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      in.Name,
		Unit:      in.Unit,
		UnitPrice: in.UnitPrice,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}

	logging.FromContext(ctx).Info("product created", "product_id", product.ID)
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	products, err := s.products.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	if in.UnitPrice.Sign() < 0 {
		return nil, fmt.Errorf("UpdateProduct: %w", domain.ErrInvalidAmount)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}

	product.Name = in.Name
	product.Unit = in.Unit
	product.UnitPrice = in.UnitPrice
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	logging.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}
