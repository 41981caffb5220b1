package userControllers

import (
	"net/http"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Picture *string         `json:"picture"`
	Address *models.Address `json:"address"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User
		if err := db.Preload("Cart.Items").Preload("Orders").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "name", "phone", "picture", "provider", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Picture != nil {
			updates["picture"] = *input.Picture
		}
		if input.Address != nil {
			updates["country"] = input.Address.Country
			updates["state"] = input.Address.State
			updates["city"] = input.Address.City
			updates["street"] = input.Address.Street
			updates["postal_code"] = input.Address.PostalCode
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, user)
			return
		}

		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
