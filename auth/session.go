package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/aaditya09750/Agroreach-sub000/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionRequest carries an identity already verified by the trusted gateway
// in front of this service. Credential validation is an external collaborator
// concern; this endpoint only provisions the local user record and session.
type SessionRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	GuestID string `json:"guest_id"`
}

// POST /auth/session (gateway-key protected)
func CreateSessionHandler(db *gorm.DB, carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		err := db.Preload("Cart.Items").Where("id = ?", req.UserID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				ID:       req.UserID,
				Email:    req.Email,
				Name:     req.Name,
				Picture:  req.Picture,
				Provider: "gateway",
				Cart:     models.Cart{UserID: req.UserID},
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		case err == nil:
			db.Model(&user).Updates(models.User{Name: req.Name, Picture: req.Picture})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		mergeStatus := "no-guest-cart"
		if req.GuestID != "" {
			merged, err := carts.MergeGuestCart(req.GuestID, user.ID)
			switch {
			case err != nil:
				mergeStatus = "merge-failed"
			case merged:
				mergeStatus = "merged-success"
			default:
				mergeStatus = "guest-cart-empty"
			}
		}

		token, err := IssueToken(user.ID, "user", 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        token,
		})
	}
}
