package handlers

import (
	"net/http"

	"panela-api/apperror"
	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	MinSelect *int   `json:"min_select" binding:"omitempty,min=0"`
	MaxSelect *int   `json:"max_select" binding:"omitempty,min=1"`
}

type AddMenuItemRequest struct {
	Name  string           `json:"name" binding:"required"`
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// ownCategory loads a menu category owned by the caller's chef profile.
func ownCategory(c *gin.Context, db *gorm.DB, actor services.Actor, id string) (*models.MenuCategory, error) {
	ctx := c.Request.Context()
	var category models.MenuCategory
	if err := db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	if actor.Role == models.RoleAdmin {
		return &category, nil
	}
	chef, err := services.ChefForUser(ctx, db, actor.UserID)
	if err != nil {
		return nil, err
	}
	if category.ChefID != chef.ID {
		return nil, apperror.Forbiddenf("You can only manage your own menu")
	}
	return &category, nil
}

// CreateCategory adds a plate category to the logged-in chef's menu
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "menu.create_category", models.RoleChef)
		if !ok {
			return
		}
		var req CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		minSel, maxSel := 0, 1
		if req.MinSelect != nil {
			minSel = *req.MinSelect
		}
		if req.MaxSelect != nil {
			maxSel = *req.MaxSelect
		}
		if minSel > maxSel {
			respondError(c, "menu.create_category", apperror.Validationf("min_select must not exceed max_select"))
			return
		}

		ctx := c.Request.Context()
		chef, err := services.ChefForUser(ctx, db, actor.UserID)
		if err != nil {
			respondError(c, "menu.create_category", err)
			return
		}

		category := models.MenuCategory{ChefID: chef.ID, Name: req.Name, MinSelect: minSel, MaxSelect: maxSel}
		if err := db.WithContext(ctx).Create(&category).Error; err != nil {
			respondError(c, "menu.create_category", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
	}
}

// ListCategories returns a chef's plate menu with its items
func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.MenuCategory
		err := db.WithContext(c.Request.Context()).
			Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("name asc") }).
			Where("chef_id = ?", c.Param("chefId")).
			Order("created_at asc").
			Find(&categories).Error
		if err != nil {
			respondError(c, "menu.list", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
	}
}

func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "menu.delete_category", models.RoleChef, models.RoleAdmin)
		if !ok {
			return
		}
		category, err := ownCategory(c, db, actor, c.Param("id"))
		if err != nil {
			respondError(c, "menu.delete_category", err)
			return
		}
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("category_id = ?", category.ID).Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(category).Error
		})
		if err != nil {
			respondError(c, "menu.delete_category", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}

// AddMenuItem adds an item to one of the caller's categories
func AddMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "menu.add_item", models.RoleChef)
		if !ok {
			return
		}
		var req AddMenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := services.CheckAmount("price", *req.Price); err != nil {
			respondError(c, "menu.add_item", err)
			return
		}

		category, err := ownCategory(c, db, actor, c.Param("categoryId"))
		if err != nil {
			respondError(c, "menu.add_item", err)
			return
		}

		item := models.MenuItem{CategoryID: category.ID, Name: req.Name, Price: *req.Price}
		if err := db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
			respondError(c, "menu.add_item", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
	}
}

func DeleteMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "menu.delete_item", models.RoleChef, models.RoleAdmin)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var item models.MenuItem
		if err := db.WithContext(ctx).First(&item, "id = ?", c.Param("id")).Error; err != nil {
			respondError(c, "menu.delete_item", notFoundOr(err, "Menu item not found"))
			return
		}
		if _, err := ownCategory(c, db, actor, item.CategoryID); err != nil {
			respondError(c, "menu.delete_item", err)
			return
		}
		if err := db.WithContext(ctx).Delete(&item).Error; err != nil {
			respondError(c, "menu.delete_item", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
	}
}
