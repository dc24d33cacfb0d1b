package main

import (
	"log"
	"net/http"
	"time"

	"panela-api/config"
	"panela-api/handlers"
	"panela-api/routes"
	"panela-api/seed"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer config.CloseDB(db)

	if cfg.Seed {
		if err := seed.Run(db); err != nil {
			log.Fatal(err)
		}
	}

	// Money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
	handlers.RegisterValidators()

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Panela de Casa API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"CUSTOMER", "CHEF", "ADMIN"},
		})
	})

	routes.SetupRoutes(r, db, cfg)

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
