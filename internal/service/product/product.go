// internal/service/product/product.go
package product

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"prorata-service/internal/domain/product"
	xerrors "prorata-service/internal/pkg/errors"
	"prorata-service/internal/repository/postgres"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type ProductService struct {
	repo   *postgres.ProductRepository
	logger *zap.Logger
}

func NewProductService(repo *postgres.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// CreateProduct stores a new product; imageURL may be empty
func (s *ProductService) CreateProduct(ctx context.Context, req *product.CreateProductRequest, imageURL string) (*product.Product, error) {
	p := &product.Product{
		Name:         req.Name,
		PriceInCents: req.PriceInCents,
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if imageURL != "" {
		p.ImageURL = sql.NullString{String: imageURL, Valid: true}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("product_id", p.ID))
	return p, nil
}

// GetProduct retrieves one product
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) (*product.ProductListResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &product.ProductListResponse{Products: products, Total: len(products)}, nil
}

// UpdateProduct applies a partial update
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *product.UpdateProductRequest) (*product.Product, error) {
	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("product_id", id))
	return p, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// AttachImage records the stored location of an uploaded product image
func (s *ProductService) AttachImage(ctx context.Context, id int64, imageURL string) error {
	return s.repo.SetImageURL(ctx, id, imageURL)
}

// ImageFilename builds a collision-free name for an uploaded image,
// rejecting extensions outside the allow list.
func (s *ProductService) ImageFilename(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q: %w", ext, xerrors.ErrInvalidInput)
	}
	return ulid.Make().String() + ext, nil
}
