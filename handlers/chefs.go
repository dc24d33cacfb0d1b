package handlers

import (
	"net/http"
	"strings"

	"panela-api/apperror"
	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UpdateChefRequest struct {
	KitchenName    *string        `json:"kitchen_name" binding:"omitempty,min=2"`
	Bio            *string        `json:"bio"`
	CuisineTypes   []string       `json:"cuisine_types"`
	Location       *string        `json:"location"`
	OpeningHours   datatypes.JSON `json:"opening_hours"`
	DeliveryRadius *int           `json:"delivery_radius_km" binding:"omitempty,min=0"`
	PhotoURL       *string        `json:"photo_url" binding:"omitempty,url"`
}

// ListChefs returns approved chefs, filtered by cuisine tag and location
func ListChefs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePagination(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, "chefs.list", err)
			return
		}

		cuisine := strings.TrimSpace(c.Query("cuisine"))
		location := strings.ToLower(strings.TrimSpace(c.Query("location")))
		filters := func(tx *gorm.DB) *gorm.DB {
			tx = tx.Where("approved = ?", true)
			if cuisine != "" {
				// cuisine tags are stored as a JSON array of strings
				tx = tx.Where(`CAST(cuisine_types AS TEXT) LIKE ? ESCAPE '\'`, `%"`+escapeLike(cuisine)+`"%`)
			}
			if location != "" {
				tx = tx.Where(`LOWER(location) LIKE ? ESCAPE '\'`, "%"+escapeLike(location)+"%")
			}
			return tx
		}
		conn := db.WithContext(c.Request.Context())

		var total int64
		if err := conn.Model(&models.Chef{}).Scopes(filters).Count(&total).Error; err != nil {
			respondError(c, "chefs.list", err)
			return
		}

		var chefs []models.Chef
		err = conn.Scopes(filters).Order("kitchen_name asc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&chefs).Error
		if err != nil {
			respondError(c, "chefs.list", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": chefs,
			"meta": gin.H{
				"total":       total,
				"page":        page,
				"limit":       limit,
				"total_pages": totalPages(total, limit),
			},
		})
	}
}

// GetChef returns a chef with dishes, the latest ratings and counts
func GetChef(db *gorm.DB, ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var chef models.Chef
		err := db.WithContext(ctx).
			Preload("Dishes").
			Preload("Ratings", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("created_at desc").Limit(10)
			}).
			First(&chef, "id = ?", c.Param("id")).Error
		if err != nil {
			respondError(c, "chefs.get", notFoundOr(err, "Chef not found"))
			return
		}

		summary, err := ratings.Summary(ctx, chef.ID)
		if err != nil {
			respondError(c, "chefs.get", err)
			return
		}
		var orderCount int64
		if err := db.WithContext(ctx).Model(&models.Order{}).Where("chef_id = ?", chef.ID).Count(&orderCount).Error; err != nil {
			respondError(c, "chefs.get", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"chef": chef,
			"counts": gin.H{
				"dishes":  len(chef.Dishes),
				"orders":  orderCount,
				"ratings": summary.Count,
			},
			"average_rating": summary.Average,
		})
	}
}

// GetMyChef returns the logged-in chef's profile
func GetMyChef(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "chefs.me", models.RoleChef)
		if !ok {
			return
		}
		chef, err := services.ChefForUser(c.Request.Context(), db, actor.UserID)
		if err != nil {
			respondError(c, "chefs.me", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chef": chef})
	}
}

// UpdateMyChef applies a partial update to the logged-in chef's profile
func UpdateMyChef(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "chefs.update", models.RoleChef)
		if !ok {
			return
		}
		var req UpdateChefRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		chef, err := services.ChefForUser(ctx, db, actor.UserID)
		if err != nil {
			respondError(c, "chefs.update", err)
			return
		}

		if req.KitchenName != nil {
			chef.KitchenName = strings.TrimSpace(*req.KitchenName)
		}
		if req.Bio != nil {
			chef.Bio = *req.Bio
		}
		if req.CuisineTypes != nil {
			chef.CuisineTypes = datatypes.JSONSlice[string](req.CuisineTypes)
		}
		if req.Location != nil {
			chef.Location = *req.Location
		}
		if req.OpeningHours != nil {
			chef.OpeningHours = req.OpeningHours
		}
		if req.DeliveryRadius != nil {
			chef.DeliveryRadius = *req.DeliveryRadius
		}
		if req.PhotoURL != nil {
			chef.PhotoURL = *req.PhotoURL
		}

		if err := db.WithContext(ctx).Save(chef).Error; err != nil {
			respondError(c, "chefs.update", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "chef": chef})
	}
}

// ApproveChef makes a chef visible in the public listing (admin only)
func ApproveChef(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authorize(c, "admin.approve_chef", models.RoleAdmin); !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).
			Model(&models.Chef{}).
			Where("id = ?", c.Param("id")).
			Update("approved", true)
		if res.Error != nil {
			respondError(c, "admin.approve_chef", res.Error)
			return
		}
		if res.RowsAffected == 0 {
			respondError(c, "admin.approve_chef", apperror.NotFoundf("Chef not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Chef approved", "chef_id": c.Param("id")})
	}
}
