package routes

import (
	adminControllers "github.com/aaditya09750/Agroreach-sub000/controllers/admin"
	cartControllers "github.com/aaditya09750/Agroreach-sub000/controllers/cart"
	orderControllers "github.com/aaditya09750/Agroreach-sub000/controllers/order"
	productcontroller "github.com/aaditya09750/Agroreach-sub000/controllers/product"
	userControllers "github.com/aaditya09750/Agroreach-sub000/controllers/user"
	"github.com/aaditya09750/Agroreach-sub000/middleware"
	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(r *gin.Engine, app App) {
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		// Catalog management
		admin.POST("/products", productcontroller.CreateProduct(app.DB))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(app.DB, app.Ledger))
		admin.PUT("/products/:id/stock", productcontroller.SetProductStock(app.Ledger))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(app.DB))
		admin.GET("/products/export", productcontroller.ExportProductsToExcel(app.DB))

		admin.POST("/categories", productcontroller.CreateCategory(app.DB))
		admin.PUT("/categories/:id", productcontroller.UpdateCategory(app.DB))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(app.DB))

		// Back office
		admin.GET("/users", userControllers.GetAllUsers(app.DB))
		admin.GET("/cart/:user_id", cartControllers.GetAdminUserCart(app.Carts))
		admin.GET("/admins", adminControllers.GetAllAdmins(app.DB))
		admin.PUT("/admins/:id/approval", adminControllers.SetAdminApproval(app.DB))

		// Order back office
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(app.DB))
		admin.GET("/orders/user/:userID", orderControllers.GetUserOrdersHandler(app.DB))
		admin.PUT("/orders/:orderRef/status", orderControllers.UpdateOrderStatusHandler(app.Orders))
		admin.POST("/orders/:orderRef/cancel", orderControllers.CancelOrderHandler(app.Orders))

		// Live order feed for the dashboard
		admin.GET("/orders/ws", app.Hub.Handler)
	}
}
