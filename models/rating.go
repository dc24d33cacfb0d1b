package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a 1-5 star review of a chef. At most one rating exists per
// (customer, chef, order); ratings without an order are not constrained.
type Rating struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	CustomerID string    `json:"customer_id" gorm:"not null;size:36;uniqueIndex:idx_rating_order,priority:1"`
	Customer   *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ChefID     string    `json:"chef_id" gorm:"not null;index;size:36;uniqueIndex:idx_rating_order,priority:2"`
	OrderID    *string   `json:"order_id,omitempty" gorm:"size:36;uniqueIndex:idx_rating_order,priority:3"`
	Stars      int       `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ChefRatingSummary aggregates a chef's ratings.
type ChefRatingSummary struct {
	ChefID  string  `json:"chef_id"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}
