package main

import (
	"fmt"
	"log"
	"os"
	"time"

	orderControllers "github.com/aaditya09750/Agroreach-sub000/controllers/order"
	"github.com/aaditya09750/Agroreach-sub000/inventory"
	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/aaditya09750/Agroreach-sub000/routes"
	"github.com/aaditya09750/Agroreach-sub000/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("Starting Agroreach API...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Admin{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestUser{},
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Core components
	ledger := inventory.NewLedger(db)
	sequencer := services.NewOrderSequencer(db)
	carts := services.NewCartStore(db)
	hub := orderControllers.NewHub()
	notifier := services.Notifiers{services.LogNotifier{}, hub}
	orders := services.NewOrderService(db, ledger, sequencer, carts, notifier)

	// Gin setup
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded product images
	uploadsDir := os.Getenv("UPLOAD_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	r.Static("/uploads", uploadsDir)

	routes.SetupRoutes(r, routes.App{
		DB:     db,
		Ledger: ledger,
		Carts:  carts,
		Orders: orders,
		Hub:    hub,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}
