package handlers

import (
	"net/http"

	"panela-api/apperror"
	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateDishRequest struct {
	Type        models.DishType  `json:"type" binding:"omitempty,dishtype"`
	Name        string           `json:"name" binding:"required,min=2"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	PhotoURL    string           `json:"photo_url" binding:"omitempty,url"`
	PrepMinutes *int             `json:"prep_minutes" binding:"omitempty,min=0"`
}

type UpdateDishRequest struct {
	Type        *models.DishType `json:"type" binding:"omitempty,dishtype"`
	Name        *string          `json:"name" binding:"omitempty,min=2"`
	Description *string          `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Price       *decimal.Decimal `json:"price"`
	PhotoURL    *string          `json:"photo_url" binding:"omitempty,url"`
	PrepMinutes *int             `json:"prep_minutes" binding:"omitempty,min=0"`
}

// ownDish loads a dish and checks it belongs to the calling chef
func ownDish(c *gin.Context, db *gorm.DB, actor services.Actor, id string) (*models.Dish, error) {
	ctx := c.Request.Context()
	var dish models.Dish
	if err := db.WithContext(ctx).First(&dish, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Dish not found")
	}
	if actor.Role == models.RoleAdmin {
		return &dish, nil
	}
	chef, err := services.ChefForUser(ctx, db, actor.UserID)
	if err != nil {
		return nil, err
	}
	if dish.ChefID != chef.ID {
		return nil, apperror.Forbiddenf("You can only manage your own dishes")
	}
	return &dish, nil
}

// CreateDish adds a dish to the logged-in chef's catalog
func CreateDish(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "dishes.create", models.RoleChef)
		if !ok {
			return
		}
		var req CreateDishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := services.CheckAmount("price", *req.Price); err != nil {
			respondError(c, "dishes.create", err)
			return
		}

		ctx := c.Request.Context()
		chef, err := services.ChefForUser(ctx, db, actor.UserID)
		if err != nil {
			respondError(c, "dishes.create", err)
			return
		}

		dish := models.Dish{
			ChefID:      chef.ID,
			Type:        req.Type,
			Name:        req.Name,
			Description: req.Description,
			Ingredients: datatypes.JSONSlice[string](req.Ingredients),
			Price:       *req.Price,
			PhotoURL:    req.PhotoURL,
			PrepMinutes: req.PrepMinutes,
		}
		if dish.Type == "" {
			dish.Type = models.DishReady
		}
		if err := db.WithContext(ctx).Create(&dish).Error; err != nil {
			respondError(c, "dishes.create", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Dish created", "dish": dish})
	}
}

// ListDishes returns dishes, optionally only those of one chef
func ListDishes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.WithContext(c.Request.Context()).Order("created_at desc")
		chefID := c.Query("chef_id")
		if chefID == "" {
			chefID = c.Query("chefId")
		}
		if chefID != "" {
			query = query.Where("chef_id = ?", chefID)
		}
		if t := c.Query("type"); t != "" {
			query = query.Where("type = ?", t)
		}

		var dishes []models.Dish
		if err := query.Find(&dishes).Error; err != nil {
			respondError(c, "dishes.list", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishes})
	}
}

func GetDish(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dish models.Dish
		if err := db.WithContext(c.Request.Context()).Preload("Chef").First(&dish, "id = ?", c.Param("id")).Error; err != nil {
			respondError(c, "dishes.get", notFoundOr(err, "Dish not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"dish": dish})
	}
}

// UpdateDish changes a dish. Existing orders keep their captured prices.
func UpdateDish(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "dishes.update", models.RoleChef, models.RoleAdmin)
		if !ok {
			return
		}
		var req UpdateDishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		dish, err := ownDish(c, db, actor, c.Param("id"))
		if err != nil {
			respondError(c, "dishes.update", err)
			return
		}

		if req.Type != nil {
			dish.Type = *req.Type
		}
		if req.Name != nil {
			dish.Name = *req.Name
		}
		if req.Description != nil {
			dish.Description = *req.Description
		}
		if req.Ingredients != nil {
			dish.Ingredients = datatypes.JSONSlice[string](req.Ingredients)
		}
		if req.Price != nil {
			if err := services.CheckAmount("price", *req.Price); err != nil {
				respondError(c, "dishes.update", err)
				return
			}
			dish.Price = *req.Price
		}
		if req.PhotoURL != nil {
			dish.PhotoURL = *req.PhotoURL
		}
		if req.PrepMinutes != nil {
			dish.PrepMinutes = req.PrepMinutes
		}

		if err := db.WithContext(c.Request.Context()).Save(dish).Error; err != nil {
			respondError(c, "dishes.update", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Dish updated", "dish": dish})
	}
}

func DeleteDish(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "dishes.delete", models.RoleChef, models.RoleAdmin)
		if !ok {
			return
		}
		dish, err := ownDish(c, db, actor, c.Param("id"))
		if err != nil {
			respondError(c, "dishes.delete", err)
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(dish).Error; err != nil {
			respondError(c, "dishes.delete", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
	}
}
