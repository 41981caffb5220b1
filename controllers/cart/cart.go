package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aaditya09750/Agroreach-sub000/services"
	"github.com/gin-gonic/gin"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// POST /user/cart
func UpdateCartItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := carts.UpsertItem(userIDVal.(string), input.ProductID, input.Quantity)
		if err != nil {
			if errors.Is(err, services.ErrProductNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		if err := carts.RemoveItem(userIDVal.(string), uint(productID)); err != nil {
			if errors.Is(err, services.ErrCartItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := carts.Clear(userIDVal.(string)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cart, err := carts.Get(userIDVal.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart.Items)
	}
}

// GET /admin/cart/:user_id
func GetAdminUserCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		cart, err := carts.Get(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart.Items)
	}
}
