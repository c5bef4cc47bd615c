package service

import (
	"context"
	"math"

	"mobilestore/internal/apperr"
	"mobilestore/internal/models"
	"mobilestore/internal/store"
	"mobilestore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductCatalog is the storage surface the product service needs.
type ProductCatalog interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, error)
	CountProducts(ctx context.Context) (int, error)
	UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	DeleteProducts(ctx context.Context, ids []string) (int64, error)
	GetProductTypes(ctx context.Context) ([]string, error)
	GetProductsByType(ctx context.Context, prodType string) ([]models.Product, error)
}

// ProductMirror seeds and drops the Redis stock mirror alongside catalog
// writes.
type ProductMirror interface {
	InitStockMirror(ctx context.Context, productID string, countInStock, sold int) error
	DropStockMirror(ctx context.Context, productID string) error
}

// ProductService manages the catalog.
type ProductService struct {
	catalog ProductCatalog
	mirror  ProductMirror
	logger  *zap.Logger
}

func NewProductService(catalog ProductCatalog, mirror ProductMirror) *ProductService {
	return &ProductService{
		catalog: catalog,
		mirror:  mirror,
		logger:  util.GetLogger(),
	}
}

// CreateProductRequest is the admin catalog submission.
type CreateProductRequest struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Type         string  `json:"type"`
	Price        int64   `json:"price"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating"`
	Description  string  `json:"description"`
	Discount     int     `json:"discount"`
}

// CreateProduct adds a catalog entry. Product names are unique.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Image == "" || req.Type == "" || req.Price == 0 ||
		req.CountInStock == 0 || req.Rating == 0 || req.Description == "" {
		return nil, apperr.Validation("The input is required")
	}

	existing, err := s.catalog.GetProductByName(ctx, req.Name)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in CreateProduct", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("The name of product is already")
	}

	product := &models.Product{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Image:        req.Image,
		Type:         req.Type,
		Price:        req.Price,
		CountInStock: req.CountInStock,
		Rating:       req.Rating,
		Description:  req.Description,
		Discount:     req.Discount,
	}
	if err := s.catalog.CreateProduct(ctx, product); err != nil {
		return nil, apperr.Internal("Something went wrong in CreateProduct", err)
	}

	if s.mirror != nil {
		if err := s.mirror.InitStockMirror(ctx, product.ID, product.CountInStock, product.Sold); err != nil {
			s.logger.Warn("Failed to seed stock mirror",
				zap.String("product_id", product.ID), zap.Error(err))
		}
	}
	return product, nil
}

// UpdateProduct replaces the mutable catalog fields. A rename may not
// collide with another product's name.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *CreateProductRequest) (*models.Product, error) {
	if id == "" || !isValidID(id) {
		return nil, apperr.Validation("Invalid ID format!")
	}

	current, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateProduct", err)
	}
	if current == nil {
		return nil, apperr.NotFound("The product is not defined")
	}

	if req.Name != "" && req.Name != current.Name {
		collision, err := s.catalog.GetProductByName(ctx, req.Name)
		if err != nil {
			return nil, apperr.Internal("Something went wrong in UpdateProduct", err)
		}
		if collision != nil {
			return nil, apperr.Conflict("The name of product is already")
		}
		current.Name = req.Name
	}
	if req.Image != "" {
		current.Image = req.Image
	}
	if req.Type != "" {
		current.Type = req.Type
	}
	if req.Price != 0 {
		current.Price = req.Price
	}
	if req.CountInStock != 0 {
		current.CountInStock = req.CountInStock
	}
	if req.Rating != 0 {
		current.Rating = req.Rating
	}
	if req.Description != "" {
		current.Description = req.Description
	}
	if req.Discount != 0 {
		current.Discount = req.Discount
	}

	updated, err := s.catalog.UpdateProduct(ctx, current)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateProduct", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("The product is not defined")
	}

	if s.mirror != nil {
		if err := s.mirror.InitStockMirror(ctx, updated.ID, updated.CountInStock, updated.Sold); err != nil {
			s.logger.Warn("Failed to refresh stock mirror",
				zap.String("product_id", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// GetDetailProduct fetches one product by id.
func (s *ProductService) GetDetailProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" || !isValidID(id) {
		return nil, apperr.Validation("Invalid ID format!")
	}
	product, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetDetailProduct", err)
	}
	if product == nil {
		return nil, apperr.NotFound("The product is not defined")
	}
	return product, nil
}

// ProductsPage is the paginated catalog listing payload.
type ProductsPage struct {
	ListProducts []models.Product `json:"listProducts"`
	TotalRows    int              `json:"totalRows"`
	TotalPages   int              `json:"totalPages"`
}

// GetAllProducts lists the catalog with pagination, sorting and an optional
// contains-filter on one whitelisted field.
func (s *ProductService) GetAllProducts(ctx context.Context, q store.ProductQuery) (*ProductsPage, error) {
	if q.Limit <= 0 {
		q.Limit = 8
	}
	if q.Page < 0 {
		q.Page = 0
	}

	products, err := s.catalog.ListProducts(ctx, q)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetAllProducts", err)
	}
	total, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetAllProducts", err)
	}

	return &ProductsPage{
		ListProducts: products,
		TotalRows:    total,
		TotalPages:   int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// DeleteProduct removes one catalog entry and its stock mirror.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" || !isValidID(id) {
		return apperr.Validation("Invalid ID format!")
	}
	ok, err := s.catalog.DeleteProduct(ctx, id)
	if err != nil {
		return apperr.Internal("Something went wrong in DeleteProduct", err)
	}
	if !ok {
		return apperr.NotFound("The product is not defined")
	}
	if s.mirror != nil {
		if err := s.mirror.DropStockMirror(ctx, id); err != nil {
			s.logger.Warn("Failed to drop stock mirror",
				zap.String("product_id", id), zap.Error(err))
		}
	}
	return nil
}

// DeleteManyProducts removes a batch of catalog entries.
func (s *ProductService) DeleteManyProducts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("The ids is required")
	}
	for _, id := range ids {
		if !isValidID(id) {
			return 0, apperr.Validation("Invalid ID format!")
		}
	}
	n, err := s.catalog.DeleteProducts(ctx, ids)
	if err != nil {
		return 0, apperr.Internal("Something went wrong in DeleteManyProducts", err)
	}
	if s.mirror != nil {
		for _, id := range ids {
			if err := s.mirror.DropStockMirror(ctx, id); err != nil {
				s.logger.Warn("Failed to drop stock mirror",
					zap.String("product_id", id), zap.Error(err))
			}
		}
	}
	return n, nil
}

// GetAllTypes lists the distinct product types.
func (s *ProductService) GetAllTypes(ctx context.Context) ([]string, error) {
	types, err := s.catalog.GetProductTypes(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetAllTypes", err)
	}
	return types, nil
}

// GetProductsByType lists the products of one type.
func (s *ProductService) GetProductsByType(ctx context.Context, prodType string) ([]models.Product, error) {
	if prodType == "" {
		return nil, apperr.Validation("The type is required")
	}
	products, err := s.catalog.GetProductsByType(ctx, prodType)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetProductsByType", err)
	}
	return products, nil
}
