package handlers

import (
	"net/http"

	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
)

type CreateRatingRequest struct {
	ChefID  string `json:"chef_id"`
	OrderID string `json:"order_id"`
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

// CreateRating records a rating from the logged-in customer
func CreateRating(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "ratings.create", models.RoleCustomer)
		if !ok {
			return
		}
		var req CreateRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		rating, err := ratings.Rate(c.Request.Context(), actor.UserID, services.RateInput{
			ChefID:  req.ChefID,
			OrderID: req.OrderID,
			Stars:   req.Stars,
			Comment: req.Comment,
		})
		if err != nil {
			respondError(c, "ratings.create", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Rating saved", "rating": rating})
	}
}

func ListChefRatings(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		chefID := c.Param("id")
		list, err := ratings.ListForChef(ctx, chefID)
		if err != nil {
			respondError(c, "ratings.list", err)
			return
		}
		summary, err := ratings.Summary(ctx, chefID)
		if err != nil {
			respondError(c, "ratings.list", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"count":   summary.Count,
			"average": summary.Average,
			"ratings": list,
		})
	}
}
