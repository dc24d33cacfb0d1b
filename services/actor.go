// Package services holds the order, checkout and rating logic. Every
// service is built around an explicit *gorm.DB handle.
package services

import (
	"context"
	"errors"
	"strings"

	"panela-api/apperror"
	"panela-api/models"

	"gorm.io/gorm"
)

// Actor is the authenticated identity a service call runs on behalf of.
type Actor struct {
	UserID string
	Role   models.Role
}

// CustomerForUser resolves the customer profile owned by a user.
func CustomerForUser(ctx context.Context, db *gorm.DB, userID string) (*models.Customer, error) {
	var customer models.Customer
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFoundf("Customer profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ChefForUser resolves the chef profile owned by a user.
func ChefForUser(ctx context.Context, db *gorm.DB, userID string) (*models.Chef, error) {
	var chef models.Chef
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFoundf("Chef profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &chef, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
