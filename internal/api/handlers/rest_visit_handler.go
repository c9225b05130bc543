package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
	"github.com/carlosgl93/gumucio-propiedades/internal/services"
)

// RestVisitHandler handles visit order requests from the public site and
// the admin listing of scheduled visits.
type RestVisitHandler struct {
	visitOrderService services.IVisitOrderService
}

// NewRestVisitHandler creates a new RestVisitHandler.
func NewRestVisitHandler(visitOrderService services.IVisitOrderService) *RestVisitHandler {
	return &RestVisitHandler{visitOrderService: visitOrderService}
}

// CreateVisitOrder handles POST /v1/property/:id/visit-order
func (h *RestVisitHandler) CreateVisitOrder(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var req models.VisitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.visitOrderService.Create(c.Request.Context(), id, &req)
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create visit order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListVisitOrders handles GET /v1/admin/property/:id/visit-orders
func (h *RestVisitHandler) ListVisitOrders(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	orders, err := h.visitOrderService.ListByProperty(c.Request.Context(), id, limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visit orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}
