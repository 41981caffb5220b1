package routes

import (
	orderControllers "github.com/aaditya09750/Agroreach-sub000/controllers/order"
	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App bundles the wired components the route groups need.
type App struct {
	DB     *gorm.DB
	Ledger *inventory.Ledger
	Carts  *services.CartStore
	Orders *services.OrderService
	Hub    *orderControllers.Hub
}

// SetupRoutes is the single entry-point that wires up Auth, User, Admin and
// Order route groups.
func SetupRoutes(r *gin.Engine, app App) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, app)

	// User routes (JWT-protected) and public storefront reads
	SetupUserRoutes(r, app)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, app)

	// Order routes
	SetupOrderRoutes(r, app)
}
