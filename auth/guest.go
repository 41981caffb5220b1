package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// POST /auth/guest
func CreateGuestUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + uuid.NewString()

		guest := models.GuestUser{
			ID:        guestID,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}
		if err := db.Create(&guest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := IssueToken(guestID, "guest", 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

// IssueToken signs an HS256 JWT for a subject with the given role.
func IssueToken(userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
