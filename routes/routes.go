package routes

import (
	"panela-api/config"
	"panela-api/handlers"
	"panela-api/middleware"
	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	orders := services.NewOrderService(db)
	ratings := services.NewRatingService(db)
	authMW := middleware.AuthRequired(cfg.JWTSecret)

	r.GET("/health", handlers.Health(db))

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register(db, cfg.JWTSecret, cfg.TokenTTL))
		public.POST("/auth/login", handlers.Login(db, cfg.JWTSecret, cfg.TokenTTL))

		public.GET("/chefs", handlers.ListChefs(db))
		public.GET("/chefs/:id", handlers.GetChef(db, ratings))
		public.GET("/dishes", handlers.ListDishes(db))
		public.GET("/dishes/:id", handlers.GetDish(db))
		public.GET("/menu/categories/:chefId", handlers.ListCategories(db))
		public.GET("/ratings/chef/:id", handlers.ListChefRatings(ratings))

		// Plate preview needs no account
		public.POST("/orders/calculate-plate", handlers.CalculatePlate(orders))

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	// Role checks happen inside each handler.
	auth := r.Group("/api")
	auth.Use(authMW)
	{
		auth.GET("/auth/me", handlers.Me(db))

		auth.GET("/customers/me", handlers.GetMyCustomer(db))
		auth.PUT("/customers/me", handlers.UpdateMyCustomer(db))

		auth.GET("/chefs/me", handlers.GetMyChef(db))
		auth.PUT("/chefs/me", handlers.UpdateMyChef(db))
		auth.GET("/chefs/me/orders", handlers.GetChefOrders(orders))

		auth.POST("/dishes", handlers.CreateDish(db))
		auth.PATCH("/dishes/:id", handlers.UpdateDish(db))
		auth.DELETE("/dishes/:id", handlers.DeleteDish(db))

		auth.POST("/menu/categories", handlers.CreateCategory(db))
		auth.DELETE("/menu/categories/:id", handlers.DeleteCategory(db))
		auth.POST("/menu/items/:categoryId", handlers.AddMenuItem(db))
		auth.DELETE("/menu/items/:id", handlers.DeleteMenuItem(db))

		auth.POST("/orders", handlers.CreateOrder(orders))
		auth.POST("/orders/quick-checkout", handlers.QuickCheckout(orders))
		auth.GET("/orders/mine", handlers.GetMyOrders(orders))
		auth.GET("/orders/:id", handlers.GetOrder(orders))
		auth.GET("/orders/:id/status", handlers.GetOrderStatus(orders))
		auth.GET("/orders/:id/history", handlers.GetOrderHistory(orders))
		auth.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(orders))

		auth.POST("/ratings", handlers.CreateRating(ratings))
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(authMW, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", handlers.AdminGetAllOrders(db))
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus(orders))
		admin.GET("/users", handlers.AdminGetAllUsers(db))
		admin.GET("/chefs", handlers.AdminGetAllChefs(db))
		admin.PATCH("/chefs/:id/approve", handlers.ApproveChef(db))
	}
}
