package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"panela-api/config"
	"panela-api/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { config.CloseDB(db) })
	return db
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedChef(t *testing.T, db *gorm.DB, kitchen string) (*models.User, *models.Chef) {
	t.Helper()
	user := &models.User{Email: strings.ToLower(strings.ReplaceAll(kitchen, " ", "")) + "@chef.test", PasswordHash: "x", Role: models.RoleChef}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create chef user: %v", err)
	}
	chef := &models.Chef{UserID: user.ID, KitchenName: kitchen, Approved: true}
	if err := db.Create(chef).Error; err != nil {
		t.Fatalf("create chef: %v", err)
	}
	return user, chef
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Customer) {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleCustomer}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create customer user: %v", err)
	}
	customer := &models.Customer{UserID: user.ID, DefaultAddress: "Rua das Flores, 10"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return user, customer
}

func seedDish(t *testing.T, db *gorm.DB, chef *models.Chef, name, price string) *models.Dish {
	t.Helper()
	dish := &models.Dish{ChefID: chef.ID, Type: models.DishReady, Name: name, Price: money(price)}
	if err := db.Create(dish).Error; err != nil {
		t.Fatalf("create dish: %v", err)
	}
	return dish
}

func seedCategory(t *testing.T, db *gorm.DB, chef *models.Chef, name string, min, max int, prices ...string) (*models.MenuCategory, []models.MenuItem) {
	t.Helper()
	cat := &models.MenuCategory{ChefID: chef.ID, Name: name, MinSelect: min, MaxSelect: max}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	var items []models.MenuItem
	for i, p := range prices {
		item := models.MenuItem{CategoryID: cat.ID, Name: fmt.Sprintf("%s %d", name, i+1), Price: money(p)}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("create menu item: %v", err)
		}
		items = append(items, item)
	}
	return cat, items
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
