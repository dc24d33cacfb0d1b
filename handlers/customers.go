package handlers

import (
	"net/http"
	"strings"

	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateCustomerRequest struct {
	DefaultAddress string `json:"default_address" binding:"required"`
}

func GetMyCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "customers.me", models.RoleCustomer)
		if !ok {
			return
		}
		customer, err := services.CustomerForUser(c.Request.Context(), db, actor.UserID)
		if err != nil {
			respondError(c, "customers.me", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customer})
	}
}

// UpdateMyCustomer sets the address used when checkout omits one
func UpdateMyCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "customers.update", models.RoleCustomer)
		if !ok {
			return
		}
		var req UpdateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		customer, err := services.CustomerForUser(ctx, db, actor.UserID)
		if err != nil {
			respondError(c, "customers.update", err)
			return
		}
		customer.DefaultAddress = strings.TrimSpace(req.DefaultAddress)
		if err := db.WithContext(ctx).Model(customer).Update("default_address", customer.DefaultAddress).Error; err != nil {
			respondError(c, "customers.update", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "customer": customer})
	}
}
