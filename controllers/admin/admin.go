package adminControllers

import (
	"net/http"
	"strconv"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /admin/admins
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin
		if err := db.Find(&admins).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

// PUT /admin/admins/:id/approval
func SetAdminApproval(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin ID"})
			return
		}

		var req struct {
			Approved *bool `json:"approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Admin{}).Where("id = ?", id).Update("approved", *req.Approved)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update approval"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin approval updated"})
	}
}
