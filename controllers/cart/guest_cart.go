package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Guest carts never reach checkout directly; they are merged into the user
// cart on login. That keeps the order core single-owner: only user carts feed
// PlaceOrder.

// POST /guest/cart
func UpdateGuestCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		var cart models.GuestCart
		if err := db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cart = models.GuestCart{GuestID: guestID}
				if err := db.Create(&cart).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest cart"})
					return
				}
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
				return
			}
		}

		var item models.GuestCartItem
		err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.GuestCartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		item.ProductEName = product.EName
		item.ProductArName = product.ARName
		item.ProductImage = product.Image
		item.ProductSalePrice = product.SalePrice
		item.ProductRegularPrice = product.RegularPrice
		item.StockUnit = product.StockUnit
		item.Quantity = input.Quantity
		item.AddedAt = time.Now()

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guest cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /guest/cart/:product_id
func DeleteGuestCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		var cart models.GuestCart
		if err := db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guest cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, uint(productID)).
			Delete(&models.GuestCartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart item deleted"})
	}
}

// DELETE /guest/cart
func ClearGuestCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var cart models.GuestCart
		if err := db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart cleared"})
	}
}

// GET /guest/cart
func GetGuestCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var cart models.GuestCart
		if err := db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, []models.GuestCartItem{})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}
		c.JSON(http.StatusOK, cart.Items)
	}
}
