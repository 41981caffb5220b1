package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProduct creates a new product with multiple categories and an
// optional image upload. Initial stock is set on the row being created, so it
// needs no ledger round trip; every later stock write goes through the
// ledger.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Required fields
		ename := c.PostForm("ename")
		salePriceStr := c.PostForm("sale_price")
		if ename == "" || salePriceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ename and sale_price are required"})
			return
		}

		// Optional fields
		arname := c.PostForm("arname")
		edescription := c.PostForm("edescription")
		ardescription := c.PostForm("ardescription")
		regularPriceStr := c.PostForm("regular_price")
		stockStr := c.PostForm("stock_quantity")
		stockUnit := c.PostForm("stock_unit")
		categoryIDsStr := c.PostForm("category_ids")

		salePrice, err := strconv.ParseFloat(salePriceStr, 64)
		if err != nil || salePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_price"})
			return
		}

		var regularPrice float64
		if regularPriceStr != "" {
			if rp, parseErr := strconv.ParseFloat(regularPriceStr, 64); parseErr == nil && rp >= 0 {
				regularPrice = rp
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid regular_price"})
				return
			}
		}

		stockQuantity := 0
		if stockStr != "" {
			if sq, parseErr := strconv.Atoi(stockStr); parseErr == nil && sq >= 0 {
				stockQuantity = sq
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_quantity"})
				return
			}
		}

		if stockUnit == "" {
			stockUnit = string(models.UnitPiece)
		}
		if !models.ValidStockUnit(stockUnit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_unit"})
			return
		}

		// Categories
		var categories []models.Category
		if categoryIDsStr != "" {
			idTokens := strings.Split(categoryIDsStr, ",")
			var parsedIDs []uint
			for _, tok := range idTokens {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				if id64, parseErr := strconv.ParseUint(tok, 10, 64); parseErr == nil {
					parsedIDs = append(parsedIDs, uint(id64))
				} else {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
					return
				}
			}
			if len(parsedIDs) > 0 {
				if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
					return
				}
			}
		}

		// Optional image upload
		imageURL := ""
		if file, err := c.FormFile("image"); err == nil {
			filename := strings.ReplaceAll(file.Filename, " ", "_")
			saveDir := uploadDir()
			if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload folder: %v", err)})
				return
			}
			savePath := filepath.Join(saveDir, filename)
			if err := c.SaveUploadedFile(file, savePath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save image: %v", err)})
				return
			}
			imageURL = fmt.Sprintf("/uploads/products/%s", filename)
		}

		newProduct := models.Product{
			EName:         ename,
			ARName:        arname,
			EDescription:  edescription,
			ARDescription: ardescription,
			SalePrice:     salePrice,
			RegularPrice:  regularPrice,
			Image:         imageURL,
			StockQuantity: stockQuantity,
			StockUnit:     models.StockUnit(stockUnit),
			StockStatus:   models.StatusForQuantity(stockQuantity),
			Categories:    categories,
		}

		if err := db.Create(&newProduct).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, newProduct)
	}
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return filepath.Join(dir, "products")
	}
	return "uploads/products"
}
