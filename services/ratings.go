package services

import (
	"context"
	"errors"

	"panela-api/apperror"
	"panela-api/models"

	"gorm.io/gorm"
)

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

type RateInput struct {
	ChefID  string
	OrderID string
	Stars   int
	Comment string
}

var errAlreadyRated = apperror.Validationf("Order already rated")

// Rate records a rating from the calling customer. With an order the chef
// is taken from the order, the order must be COMPLETED, and it can be rated
// once. Without an order a chef id is required.
func (s *RatingService) Rate(ctx context.Context, userID string, in RateInput) (*models.Rating, error) {
	if in.Stars < 1 || in.Stars > 5 {
		return nil, apperror.Validationf("stars must be between 1 and 5")
	}
	db := s.db.WithContext(ctx)

	customer, err := CustomerForUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		CustomerID: customer.ID,
		Stars:      in.Stars,
		Comment:    in.Comment,
	}

	switch {
	case in.OrderID != "":
		var order models.Order
		if err := db.First(&order, "id = ?", in.OrderID).Error; err != nil {
			return nil, notFoundOr(err, "Order not found")
		}
		if order.CustomerID != customer.ID {
			return nil, apperror.Forbiddenf("You can only rate your own orders")
		}
		if order.Status != models.StatusCompleted {
			return nil, apperror.Validationf("Only completed orders can be rated")
		}
		orderID := order.ID
		rating.ChefID = order.ChefID
		rating.OrderID = &orderID
	case in.ChefID != "":
		if err := db.First(&models.Chef{}, "id = ?", in.ChefID).Error; err != nil {
			return nil, notFoundOr(err, "Chef not found")
		}
		rating.ChefID = in.ChefID
	default:
		return nil, apperror.Validationf("chefId or orderId is required")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if rating.OrderID != nil {
			var existing models.Rating
			err := tx.Where("customer_id = ? AND chef_id = ? AND order_id = ?", rating.CustomerID, rating.ChefID, *rating.OrderID).
				First(&existing).Error
			if err == nil {
				return errAlreadyRated
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if err := tx.Create(rating).Error; err != nil {
			if isUniqueViolation(err) {
				return errAlreadyRated
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// ListForChef returns a chef's ratings, newest first.
func (s *RatingService) ListForChef(ctx context.Context, chefID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).Where("chef_id = ?", chefID).Order("created_at desc").Find(&ratings).Error
	return ratings, err
}

func (s *RatingService) Summary(ctx context.Context, chefID string) (models.ChefRatingSummary, error) {
	var row struct {
		Count   int64
		Average float64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COUNT(*) AS count, COALESCE(AVG(stars), 0) AS average").
		Where("chef_id = ?", chefID).
		Scan(&row).Error
	return models.ChefRatingSummary{ChefID: chefID, Count: row.Count, Average: row.Average}, err
}
