package config

import (
	"log"
	"os"
	"strconv"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"respos-api/store"
)

// Config centralises environment and runtime configuration.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret []byte
	// TaxRate is the fixed configured rate applied to every order
	// subtotal, e.g. 0.08 for 8%.
	TaxRate float64
	// AMQPURL, when set, switches the realtime layer to the RabbitMQ bus
	// so several API processes can serve the same floor.
	AMQPURL string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "respos.db"),
		JWTSecret: []byte(getEnv("JWT_SECRET", "respos_dev_secret_2024")),
		TaxRate:   getEnvFloat("TAX_RATE", 0.08),
		AMQPURL:   os.Getenv("AMQP_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %.2f", key, v, fallback)
		return fallback
	}
	return f
}

// InitDB opens the SQLite database and migrates the schema.
func InitDB(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := store.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("✅ Database connected and migrated successfully")
	return db
}
