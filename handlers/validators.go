package handlers

import (
	"sync"

	"panela-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the enum validators used by request binding
// tags. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("dishtype", func(fl validator.FieldLevel) bool {
			return models.DishType(fl.Field().String()).Valid()
		})
		v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return models.PaymentMethod(fl.Field().String()).Valid()
		})
		v.RegisterValidation("signuprole", func(fl validator.FieldLevel) bool {
			r := models.Role(fl.Field().String())
			return r == models.RoleCustomer || r == models.RoleChef
		})
	})
}
