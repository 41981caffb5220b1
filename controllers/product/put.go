package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProduct updates an existing product by ID. Catalog fields are plain
// row updates; the stock counter is written only through the ledger so its
// derived status cannot drift and no concurrent checkout sees a torn write.
func UpdateProduct(db *gorm.DB, ledger *inventory.Ledger) gin.HandlerFunc {
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

		parseFloat := func(val string) *float64 {
			if val == "" {
				return nil
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return &f
			}
			return nil
		}

		if v := c.PostForm("ename"); v != "" {
			product.EName = v
		}
		if v := c.PostForm("arname"); v != "" {
			product.ARName = v
		}
		if v := c.PostForm("edescription"); v != "" {
			product.EDescription = v
		}
		if v := c.PostForm("ardescription"); v != "" {
			product.ARDescription = v
		}
		if v := parseFloat(c.PostForm("sale_price")); v != nil && *v >= 0 {
			product.SalePrice = *v
		}
		if v := parseFloat(c.PostForm("regular_price")); v != nil && *v >= 0 {
			product.RegularPrice = *v
		}
		if v := c.PostForm("stock_unit"); v != "" {
			if !models.ValidStockUnit(v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_unit"})
				return
			}
			product.StockUnit = models.StockUnit(v)
		}

		if categoryIDsStr := c.PostForm("category_ids"); categoryIDsStr != "" {
			idTokens := strings.Split(categoryIDsStr, ",")
			var parsedIDs []uint
			for _, tok := range idTokens {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				if id64, parseErr := strconv.ParseUint(tok, 10, 64); parseErr == nil {
					parsedIDs = append(parsedIDs, uint(id64))
				}
			}
			if len(parsedIDs) > 0 {
				var categories []models.Category
				if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err == nil {
					if err := db.Model(&product).Association("Categories").Replace(categories); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update categories"})
						return
					}
				}
			}
		}

		if file, err := c.FormFile("image"); err == nil {
			filename := strings.ReplaceAll(file.Filename, " ", "_")
			saveDir := uploadDir()
			if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload folder: %v", err)})
				return
			}
			if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save image: %v", err)})
				return
			}
			product.Image = fmt.Sprintf("/uploads/products/%s", filename)
		}

		// Save catalog fields without touching the stock columns.
		if err := db.Omit("StockQuantity", "StockStatus", "Categories").Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		// Stock correction goes through the ledger.
		if stockStr := c.PostForm("stock_quantity"); stockStr != "" {
			quantity, parseErr := strconv.Atoi(stockStr)
			if parseErr != nil || quantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_quantity"})
				return
			}
			if err := ledger.SetStock(product.ID, quantity); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
				return
			}
		}

		var updated models.Product
		if err := db.Preload("Categories").First(&updated, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// PUT /admin/products/:id/stock
func SetProductStock(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var req struct {
			StockQuantity *int `json:"stock_quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || *req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must be a non-negative integer"})
			return
		}

		if err := ledger.SetStock(uint(id), *req.StockQuantity); err != nil {
			if errors.Is(err, inventory.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
	}
}
