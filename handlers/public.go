package handlers

import (
	"net/http"
	"time"

	"panela-api/models"
	"panela-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports liveness and whether the store answers
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "Panela de Casa API",
			"ts":      time.Now().UnixMilli(),
		})
	}
}

// GetStateMachineInfo returns the published order lifecycle
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        statemachine.Statuses(),
		"terminal_states": []models.OrderStatus{models.StatusCompleted, models.StatusCancelled},
		"description":     "Home-cooked order lifecycle. Status updates are not restricted to these steps.",
	})
}
