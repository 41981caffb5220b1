package routes

import (
	orderControllers "github.com/aaditya09750/Agroreach-sub000/controllers/order"
	"github.com/aaditya09750/Agroreach-sub000/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, app App) {
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Create a new order from the caller's cart
		orders.POST("/place", orderControllers.PlaceOrderHandler(app.Orders))

		// Fetch the caller's own orders
		orders.GET("/mine", orderControllers.GetMyOrdersHandler(app.DB))

		// Fetch a single order by reference
		orders.GET("/:orderRef", orderControllers.GetOrderHandler(app.Orders))

		// Cancel an order the caller owns
		orders.POST("/:orderRef/cancel", orderControllers.CancelOrderHandler(app.Orders))
	}
}
