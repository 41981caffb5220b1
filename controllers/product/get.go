package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /products/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /products?category_id=&in_stock=
func GetAllProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Categories").Order("created_at DESC")

		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", categoryID)
		}
		if c.Query("in_stock") == "true" {
			query = query.Where("stock_status = ?", models.StockStatusInStock)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
