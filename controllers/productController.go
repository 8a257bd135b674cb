package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetProducts(ctx *gin.Context) {
	var filter models.ProductFilter
	var query pageQuery
	if !bindQuery(ctx, &filter) || !bindQuery(ctx, &query) {
		return
	}

	products, pagination, err := h.Catalog.List(ctx.Request.Context(), filter, query.page())
	if err != nil {
		handleServiceError(ctx, "Unable to fetch products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products":   products,
		"pagination": pagination,
	})
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	product, err := h.Catalog.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, "Unable to retrieve product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"product": product})
}

func (h *Handler) GetCategories(ctx *gin.Context) {
	categories, err := h.Catalog.Categories(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, "Unable to fetch categories", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data models.ProductData
	if !bindJSON(ctx, &data) {
		return
	}

	product, err := h.Catalog.Create(ctx.Request.Context(), actor, data)
	if err != nil {
		handleServiceError(ctx, "Failed to create product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *Handler) UpdateProduct(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var patch models.ProductPatch
	if !bindJSON(ctx, &patch) {
		return
	}

	product, err := h.Catalog.Update(ctx.Request.Context(), ctx.Param("id"), actor, patch)
	if err != nil {
		handleServiceError(ctx, "Failed to update product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *Handler) DeleteProduct(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.Catalog.Delete(ctx.Request.Context(), ctx.Param("id"), actor); err != nil {
		handleServiceError(ctx, "Failed to delete product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImages stores the multipart "images" files and appends their
// URLs to the product. Files that fail are reported back, not fatal.
func (h *Handler) UploadProductImages(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	if h.Images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	productID := ctx.Param("id")
	if err := h.Catalog.CheckOwnership(ctx.Request.Context(), productID, actor); err != nil {
		handleServiceError(ctx, "Failed to validate product", err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		key := fmt.Sprintf("products/%s/%s-%s", productID, time.Now().Format("20060102150405"), filepath.Base(file.Filename))
		url, uploadErr := h.Images.Upload(ctx.Request.Context(), key, file.Header.Get("Content-Type"), f)
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}
		uploadedUrls = append(uploadedUrls, url)
	}

	if len(uploadedUrls) == 0 {
		sendJSONResponse(ctx, http.StatusBadGateway, gin.H{
			"message": "No files could be uploaded",
			"failed":  failedUploads,
		})
		return
	}

	product, err := h.Catalog.AddImages(ctx.Request.Context(), productID, actor, uploadedUrls)
	if err != nil {
		handleServiceError(ctx, "Failed to save product images", err)
		return
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
		"product": product,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}
	sendJSONResponse(ctx, http.StatusOK, response)
}
