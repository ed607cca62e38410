package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"respos-api/config"
	"respos-api/engine"
	"respos-api/handlers"
	"respos-api/models"
	"respos-api/realtime"
	"respos-api/routes"
	"respos-api/store"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()

	// Initialize database
	db := config.InitDB(cfg.DBPath)
	seed(db)

	st := store.NewGorm(db)

	// Realtime bus: in-process hub by default, RabbitMQ when AMQP_URL is
	// set so multiple API processes can serve the same floor.
	var bus realtime.Bus
	if cfg.AMQPURL != "" {
		amqpBus, err := realtime.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer amqpBus.Close()
		bus = amqpBus
		log.Println("✅ Realtime bus: RabbitMQ")
	} else {
		bus = realtime.NewHub()
		log.Println("✅ Realtime bus: in-process hub")
	}

	eng := engine.New(st, bus, cfg.TaxRate)
	h := handlers.New(eng, st, bus, cfg.JWTSecret)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for terminal/tablet frontends
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "ResPOS Order Management API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍽️ Welcome to the ResPOS Order Management API",
			"docs":    "/api/state-machines",
			"health":  "/health",
			"roles":   []string{"admin", "captain", "cashier", "kitchen"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h, st, cfg.JWTSecret)

	// Start server
	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// seed creates the built-in roles and a default admin account on first
// run. Idempotent: an already-populated database is left untouched.
func seed(db *gorm.DB) {
	var count int64
	db.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	roles := []models.Role{
		{Name: "admin", Permissions: models.PermissionList{models.PermAll}},
		{Name: "captain", Permissions: models.PermissionList{
			models.PermOrders, models.PermTables, models.PermServe, models.PermVoidRequest,
		}},
		{Name: "cashier", Permissions: models.PermissionList{
			models.PermPayments, models.PermShifts, models.PermVoidApprove,
		}},
		{Name: "kitchen", Permissions: models.PermissionList{models.PermKitchen}},
	}
	if err := db.Create(&roles).Error; err != nil {
		log.Fatal("Failed to seed roles:", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("⚠️  ADMIN_PASSWORD not set, using default 'admin123' — change it")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	admin := models.Employee{
		Name:         "Administrator",
		Email:        "admin@respos.local",
		PasswordHash: string(hash),
		Roles:        roles[:1],
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin employee:", err)
	}
	log.Println("✅ Seeded roles and default admin (admin@respos.local)")
}
