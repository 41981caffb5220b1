package orderControllers

import (
	"errors"
	"net/http"

	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/aaditya09750/Agroreach-sub000/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	BillingAddress models.Address `json:"billing_address" binding:"required"`
	PaymentMethod  string         `json:"payment_method" binding:"required"` // e.g. "card", "cod"
	Subtotal       float64        `json:"subtotal"`
	ShippingCost   float64        `json:"shipping_cost"`
	Tax            float64        `json:"tax"`
	TotalAmount    float64        `json:"total_amount"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// respondOrderError maps the service error taxonomy onto HTTP responses.
// Stock conflicts are reported per product so the client can reconcile its
// cart; transition conflicts report the current status so the client can
// refresh instead of retrying blindly.
func respondOrderError(c *gin.Context, err error) {
	var insufficient *inventory.InsufficientStockError
	var outOfStock *services.OutOfStockError
	var invalid *services.InvalidTransitionError
	var notCancellable *services.NotCancellableError

	switch {
	case errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, services.ErrInvalidTotals):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order totals must not be negative"})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, services.ErrNotOrderOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "order does not belong to user"})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSequencerUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not allocate order reference"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "insufficient stock",
			"product_id": insufficient.ProductID,
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})
	case errors.As(err, &outOfStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "product out of stock",
			"product_id": outOfStock.ProductID,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "invalid status transition",
			"current_status": invalid.From,
			"target_status":  invalid.To,
		})
	case errors.As(err, &notCancellable):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "order cannot be cancelled",
			"current_status": notCancellable.Current,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// -------- Handlers --------

// POST /orders/place
func PlaceOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := svc.PlaceOrder(services.PlaceOrderInput{
			UserID:         userIDVal.(string),
			BillingAddress: req.BillingAddress,
			PaymentMethod:  req.PaymentMethod,
			Subtotal:       req.Subtotal,
			ShippingCost:   req.ShippingCost,
			Tax:            req.Tax,
			TotalAmount:    req.TotalAmount,
		})
		if err != nil {
			respondOrderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:orderRef
func GetOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderRef := c.Param("orderRef")
		if orderRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderRef is required"})
			return
		}

		order, err := svc.GetOrder(orderRef)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/user/:userID
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/mine
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userIDVal.(string)).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /orders/:orderRef/status (admin)
func UpdateOrderStatusHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderRef := c.Param("orderRef")
		if orderRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderRef is required"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := svc.UpdateStatus(orderRef, status, req.TrackingNumber)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /orders/:orderRef/cancel
func CancelOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderRef := c.Param("orderRef")
		if orderRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderRef is required"})
			return
		}

		// Admins cancel on anyone's behalf; users only their own.
		requestingUser := ""
		if role, _ := c.Get("role"); role != "admin" {
			userIDVal, exists := c.Get("user_id")
			if !exists {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			requestingUser = userIDVal.(string)
		}

		order, err := svc.CancelOrder(orderRef, requestingUser)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
