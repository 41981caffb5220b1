package routes

import (
	"github.com/aaditya09750/Agroreach-sub000/auth"
	"github.com/aaditya09750/Agroreach-sub000/middleware"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.Engine, app App) {
	a := r.Group("/auth")
	{
		a.POST("/guest", auth.CreateGuestUser(app.DB))

		// Identity is verified upstream; the gateway exchanges it for a
		// local session here.
		a.POST("/session", middleware.ValidateAPIKey, auth.CreateSessionHandler(app.DB, app.Carts))
	}
}
