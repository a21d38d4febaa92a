// internal/handlers/product/product_handler.go
package product

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prorata-service/internal/domain/product"
	xerrors "prorata-service/internal/pkg/errors"
	"prorata-service/internal/pkg/response"
	productService "prorata-service/internal/service/product"
)

type ProductHandler struct {
	productService *productService.ProductService
	uploadDir      string
	logger         *zap.Logger
}

func NewProductHandler(svc *productService.ProductService, uploadDir string, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: svc,
		uploadDir:      uploadDir,
		logger:         logger,
	}
}

// CreateProduct stores a new product; the image arrives in the same
// multipart form under the "image" field and is optional.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid form data", err)
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		filename, err := h.productService.ImageFilename(file.Filename)
		if err != nil {
			response.ValidationError(c, "unsupported image type", err)
			return
		}
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
			h.logger.Error("failed to save uploaded image", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to store image", nil)
			return
		}
		imageURL = "/uploads/" + filename
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), &req, imageURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create product", err)
		return
	}

	response.Success(c, http.StatusCreated, "product created", p)
}

// ListProducts returns all products
// GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	result, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", result)
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load product", err)
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", p)
}

// UpdateProduct applies a partial update
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update product", err)
		return
	}

	response.Success(c, http.StatusOK, "product updated", p)
}

// UploadImage replaces the product image
// PUT /api/v1/products/:id/image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.ValidationError(c, "image file is required", err)
		return
	}

	filename, err := h.productService.ImageFilename(file.Filename)
	if err != nil {
		response.ValidationError(c, "unsupported image type", err)
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		h.logger.Error("failed to save uploaded image", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to store image", nil)
		return
	}

	imageURL := "/uploads/" + filename
	if err := h.productService.AttachImage(c.Request.Context(), id, imageURL); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to attach image", err)
		return
	}

	response.Success(c, http.StatusOK, "image uploaded", gin.H{"image_url": imageURL})
}

// DeleteProduct removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete product", err)
		return
	}

	response.Success(c, http.StatusOK, "product deleted", nil)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product id", err)
		return 0, false
	}
	return id, true
}
