package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"panela-api/middleware"
	"panela-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required,signuprole"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func tokenResponse(token string, user *models.User) gin.H {
	return gin.H{
		"access_token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	}
}

// Register creates a user together with its chef or customer profile
func Register(db *gorm.DB, secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, "auth.register", err)
			return
		}

		user := models.User{Email: email, PasswordHash: string(hash), Role: req.Role}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if req.Role == models.RoleChef {
				return tx.Create(&models.Chef{UserID: user.ID}).Error
			}
			return tx.Create(&models.Customer{UserID: user.ID}).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		if err != nil {
			respondError(c, "auth.register", err)
			return
		}

		token, err := middleware.GenerateToken(secret, ttl, &user)
		if err != nil {
			respondError(c, "auth.register", err)
			return
		}
		c.JSON(http.StatusCreated, tokenResponse(token, &user))
	}
}

// Login authenticates a user and returns a JWT
func Login(db *gorm.DB, secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		var user models.User
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token, err := middleware.GenerateToken(secret, ttl, &user)
		if err != nil {
			respondError(c, "auth.login", err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse(token, &user))
	}
}

// Me returns the authenticated user with its profile
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "auth.me")
		if !ok {
			return
		}
		var user models.User
		err := db.WithContext(c.Request.Context()).Preload("Chef").Preload("Customer").First(&user, "id = ?", actor.UserID).Error
		if err != nil {
			respondError(c, "auth.me", notFoundOr(err, "User not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
