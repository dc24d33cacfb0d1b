package handlers

import (
	"net/http"
	"strings"

	"panela-api/models"
	"panela-api/pricing"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminGetAllOrders returns all orders with a per-status summary and the
// revenue of completed orders
func AdminGetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authorize(c, "admin.orders", models.RoleAdmin); !ok {
			return
		}
		query := db.WithContext(c.Request.Context()).
			Preload("Items").Preload("Chef").Preload("Customer")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if customerID := c.Query("customer_id"); customerID != "" {
			query = query.Where("customer_id = ?", customerID)
		}
		if chefID := c.Query("chef_id"); chefID != "" {
			query = query.Where("chef_id = ?", chefID)
		}

		var orders []models.Order
		if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
			respondError(c, "admin.orders", err)
			return
		}

		summary := map[string]int{}
		var completed []decimal.Decimal
		for _, o := range orders {
			summary[string(o.Status)]++
			if o.Status == models.StatusCompleted {
				completed = append(completed, o.Total)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"order_summary": summary,
			"total_revenue": pricing.Sum(completed),
			"count":         len(orders),
			"orders":        orders,
		})
	}
}

// AdminGetAllUsers returns all users, optionally filtered by role
func AdminGetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authorize(c, "admin.users", models.RoleAdmin); !ok {
			return
		}
		query := db.WithContext(c.Request.Context())
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}
		var users []models.User
		if err := query.Order("created_at asc").Find(&users).Error; err != nil {
			respondError(c, "admin.users", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
	}
}

// AdminGetAllChefs lists chefs including those still awaiting approval
func AdminGetAllChefs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authorize(c, "admin.chefs", models.RoleAdmin); !ok {
			return
		}
		query := db.WithContext(c.Request.Context()).Preload("User")
		if c.Query("pending") == "true" {
			query = query.Where("approved = ?", false)
		}
		var chefs []models.Chef
		if err := query.Find(&chefs).Error; err != nil {
			respondError(c, "admin.chefs", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(chefs), "chefs": chefs})
	}
}

// AdminForceOrderStatus overrides an order's status with a recorded reason
func AdminForceOrderStatus(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "admin.force_status", models.RoleAdmin)
		if !ok {
			return
		}
		var req struct {
			Status models.OrderStatus `json:"status" binding:"required"`
			Reason string             `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		note := "[ADMIN OVERRIDE]"
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			note += " " + reason
		}
		change, err := orders.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, note)
		if err != nil {
			respondError(c, "admin.force_status", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":         "Order status force-updated by admin",
			"order_id":        change.OrderID,
			"previous_status": change.PreviousStatus,
			"new_status":      change.CurrentStatus,
		})
	}
}
