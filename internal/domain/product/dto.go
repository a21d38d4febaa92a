// internal/domain/product/dto.go
package product

// CreateProductRequest arrives as multipart form data so the image file can
// ride along.
type CreateProductRequest struct {
	Name         string `form:"name" binding:"required,max=255"`
	Description  string `form:"description" binding:"max=2000"`
	PriceInCents int64  `form:"price_in_cents" binding:"required,min=1"`
}

type UpdateProductRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	PriceInCents *int64  `json:"price_in_cents" binding:"omitempty,min=1"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
