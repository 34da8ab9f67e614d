package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

// attachImageURL fills the computed presigned URL for a product's photo
func attachImageURL(product *models.Product) {
	if product.ImageS3Key == nil {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	if url, err := imageService.GetImageURL(*product.ImageS3Key); err == nil && url != "" {
		product.ImageURL = &url
	}
}

// ListProducts handles GET /api/v1/products - lists available products for
// the public menu, grouped by category on the client
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Where("available = ?", true).Preload("Category").Order("name ASC").Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// ListAllProducts handles GET /api/v1/staff/products - lists every product,
// including unavailable ones, for the dashboard
func ListAllProducts(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	db := config.GetDB()

	var products []models.Product
	if err := db.Preload("Category").Order("name ASC").Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// ProductRequest represents the request body for creating or updating a
// product
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Available   *bool   `json:"available"`
	CategoryID  *uint   `json:"category_id"`
}

// CreateProduct handles POST /api/v1/staff/products
func CreateProduct(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   true,
		CategoryID:  req.CategoryID,
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/staff/products/:id
func UpdateProduct(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := db.Save(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		return
	}

	attachImageURL(&product)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/staff/products/:id - soft-deletes the
// product; past order items keep their name and price snapshots
func DeleteProduct(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// UploadProductImage handles POST /api/v1/staff/products/:id/image - attaches
// a PNG photo to the product, replacing any previous one
func UploadProductImage(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Image uploads are not configured")
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UPLOAD_FAILED", err.Error())
		return
	}

	// Replace the previous photo, if any. A failed delete only leaks an
	// orphan object, so it does not fail the request.
	if product.ImageS3Key != nil {
		if err := imageService.DeleteImage(*product.ImageS3Key); err != nil {
			log.Printf("warning: failed to delete previous product image %s: %v", *product.ImageS3Key, err)
		}
	}

	product.ImageS3Key = &imageKey
	if err := db.Save(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save product image")
		return
	}

	attachImageURL(&product)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}
