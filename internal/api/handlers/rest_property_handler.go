package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
	"github.com/carlosgl93/gumucio-propiedades/internal/models"
	"github.com/carlosgl93/gumucio-propiedades/internal/services"
	"github.com/carlosgl93/gumucio-propiedades/internal/tasks"
)

// RestPropertyHandler handles REST requests for the property catalog and
// the admin back-office.
type RestPropertyHandler struct {
	cfg             *config.Config
	propertyService services.IPropertyService
	currencyService services.ICurrencyService
	taskClient      *asynq.Client // nil when no worker is wired (tests)
}

// NewRestPropertyHandler creates a new RestPropertyHandler.
func NewRestPropertyHandler(cfg *config.Config, propertyService services.IPropertyService, currencyService services.ICurrencyService, taskClient *asynq.Client) *RestPropertyHandler {
	return &RestPropertyHandler{
		cfg:             cfg,
		propertyService: propertyService,
		currencyService: currencyService,
		taskClient:      taskClient,
	}
}

// parsePropertyID extracts and validates the :id path parameter.
func parsePropertyID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondValidationError renders the full violation list of a failed
// validation so the client can surface every field error at once.
func respondValidationError(c *gin.Context, err error) bool {
	var vErr *services.ValidationFailedError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"errors": vErr.Result.Errors,
		})
		return true
	}
	return false
}

// ListProperties handles GET /v1/property
func (h *RestPropertyHandler) ListProperties(c *gin.Context) {
	filter := &models.PropertyFilter{}

	if v := c.Query("status"); v != "" {
		status := models.PropertyStatus(v)
		filter.Status = &status
	}
	if v := c.Query("propertyType"); v != "" {
		propertyType := models.PropertyType(v)
		filter.PropertyType = &propertyType
	}
	if v := c.Query("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsActive = &active
		}
	}
	if v := c.Query("isFeatured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsFeatured = &featured
		}
	}

	properties, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// GetAvailableProperties handles GET /v1/property/available
func (h *RestPropertyHandler) GetAvailableProperties(c *gin.Context) {
	properties, err := h.propertyService.Available(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list available properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// GetFeaturedProperties handles GET /v1/property/featured
func (h *RestPropertyHandler) GetFeaturedProperties(c *gin.Context) {
	properties, err := h.propertyService.Featured(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list featured properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// GetPropertyByID handles GET /v1/property/:id
func (h *RestPropertyHandler) GetPropertyByID(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	c.JSON(http.StatusOK, property)
}

// GetPropertyPrice handles GET /v1/property/:id/price
//
// Returns the listing price formatted for display, optionally converted to
// the currency given in the "currency" query parameter.
func (h *RestPropertyHandler) GetPropertyPrice(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	target := c.Query("currency")
	formatted := h.currencyService.FormatPriceWithConversion(
		c.Request.Context(), property.Price, string(property.Currency), target)

	c.JSON(http.StatusOK, gin.H{
		"price":     property.Price,
		"currency":  property.Currency,
		"formatted": formatted,
	})
}

// CreateProperty handles POST /v1/admin/property
func (h *RestPropertyHandler) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := h.propertyService.Create(c.Request.Context(), &property)
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	created, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read created property"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProperty handles PATCH /v1/admin/property/:id
func (h *RestPropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.propertyService.Update(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		if respondValidationError(c, err) {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read updated property"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProperty handles DELETE /v1/admin/property/:id
func (h *RestPropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// UploadPropertyImages handles POST /v1/admin/property/:id/images
//
// Accepts a multipart form with one or more files under the "images"
// field. All binaries are uploaded first, then the references are merged
// into the document in one write with their order slots assigned.
func (h *RestPropertyHandler) UploadPropertyImages(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images provided"})
		return
	}

	maxSizeBytes := int64(h.cfg.ImageMaxSizeMB) * 1024 * 1024
	var uploaded []models.PropertyImage

	for _, fileHeader := range files {
		if fileHeader.Size > maxSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum allowed size"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		image, err := h.propertyService.UploadImage(
			c.Request.Context(), id,
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
			file,
			c.PostForm("caption"),
		)
		file.Close()
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		uploaded = append(uploaded, *image)
	}

	merged := services.AssignImageOrder(property.Images, uploaded)
	if err := h.propertyService.Update(c.Request.Context(), id, map[string]interface{}{"images": merged}); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record uploaded images"})
		return
	}

	h.enqueueThumbnails(id, uploaded)

	c.JSON(http.StatusCreated, gin.H{"data": merged})
}

// enqueueThumbnails schedules thumbnail generation for freshly uploaded
// images. Failures are logged; the upload has already succeeded.
func (h *RestPropertyHandler) enqueueThumbnails(id primitive.ObjectID, uploaded []models.PropertyImage) {
	if h.taskClient == nil {
		return
	}
	for _, img := range uploaded {
		task, err := tasks.NewThumbnailTask(id.Hex(), img.ID, keyFromURL(img.URL))
		if err != nil {
			log.Printf("WARN: failed to build thumbnail task for image %s: %v", img.ID, err)
			continue
		}
		if _, err := h.taskClient.Enqueue(task); err != nil {
			log.Printf("WARN: failed to enqueue thumbnail task for image %s: %v", img.ID, err)
		}
	}
}

// DeletePropertyImage handles DELETE /v1/admin/property/:id/images/:imageId
//
// Removes the backing binary, drops the reference from the document and
// renumbers the remaining gallery so orders stay dense.
func (h *RestPropertyHandler) DeletePropertyImage(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	imageID := c.Param("imageId")

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	if err := h.propertyService.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	remaining := make([]models.PropertyImage, 0, len(property.Images))
	for _, img := range property.Images {
		if img.ID != imageID {
			remaining = append(remaining, img)
		}
	}

	if _, err := h.propertyService.ReorderImages(c.Request.Context(), id, remaining); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update image gallery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

// ReorderPropertyImages handles PUT /v1/admin/property/:id/images/order
//
// The request body carries the gallery in its new display sequence;
// order values are reassigned from array position.
func (h *RestPropertyHandler) ReorderPropertyImages(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var body struct {
		Images []models.PropertyImage `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reordered, err := h.propertyService.ReorderImages(c.Request.Context(), id, body.Images)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reordered})
}

// keyFromURL strips the base URL prefix so the storage key can be passed
// to the thumbnail worker. URLs issued by Upload always embed the key as
// the path suffix after the bucket or CDN host.
func keyFromURL(url string) string {
	// properties/... is the first path segment of every gallery key.
	if idx := strings.Index(url, "properties/"); idx >= 0 {
		return url[idx:]
	}
	return url
}
