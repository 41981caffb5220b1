package routes

import (
	cartControllers "github.com/aaditya09750/Agroreach-sub000/controllers/cart"
	productcontroller "github.com/aaditya09750/Agroreach-sub000/controllers/product"
	userControllers "github.com/aaditya09750/Agroreach-sub000/controllers/user"
	"github.com/aaditya09750/Agroreach-sub000/middleware"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(r *gin.Engine, app App) {
	// Public storefront reads
	r.GET("/products", productcontroller.GetAllProducts(app.DB))
	r.GET("/products/:id", productcontroller.GetProduct(app.DB))
	r.GET("/categories", productcontroller.GetAllCategories(app.DB))

	// Guest cart (guest_id issued by /auth/guest)
	guest := r.Group("/guest")
	{
		guest.GET("/cart", cartControllers.GetGuestCart(app.DB))
		guest.POST("/cart", cartControllers.UpdateGuestCartItem(app.DB))
		guest.DELETE("/cart", cartControllers.ClearGuestCart(app.DB))
		guest.DELETE("/cart/:product_id", cartControllers.DeleteGuestCartItem(app.DB))
	}

	// JWT-protected user surface
	user := r.Group("/user", middleware.ValidateToken)
	{
		user.GET("", userControllers.GetUser(app.DB))
		user.PUT("", userControllers.UpdateUser(app.DB))

		user.GET("/cart", cartControllers.GetUserCart(app.Carts))
		user.POST("/cart", cartControllers.UpdateCartItem(app.Carts))
		user.DELETE("/cart", cartControllers.ClearUserCart(app.Carts))
		user.DELETE("/cart/:product_id", cartControllers.DeleteCartItem(app.Carts))
	}
}
