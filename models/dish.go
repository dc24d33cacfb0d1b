package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DishType tells a priced ready meal apart from a plate component
type DishType string

const (
	DishReady    DishType = "READY"
	DishAlacarte DishType = "ALACARTE"
)

func (t DishType) Valid() bool {
	return t == DishReady || t == DishAlacarte
}

type Dish struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:36"`
	ChefID      string                      `json:"chef_id" gorm:"not null;index;size:36"`
	Chef        *Chef                       `json:"chef,omitempty" gorm:"foreignKey:ChefID"`
	Type        DishType                    `json:"type" gorm:"not null;default:'READY'"`
	Name        string                      `json:"name" gorm:"not null"`
	Description string                      `json:"description"`
	Ingredients datatypes.JSONSlice[string] `json:"ingredients"`
	Price       decimal.Decimal             `json:"price" gorm:"type:decimal(10,2);not null"`
	PhotoURL    string                      `json:"photo_url,omitempty"`
	PrepMinutes *int                        `json:"prep_minutes,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// MenuCategory groups plate components; a valid selection holds between
// MinSelect and MaxSelect items, both inclusive.
type MenuCategory struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	ChefID    string     `json:"chef_id" gorm:"not null;index;size:36"`
	Name      string     `json:"name" gorm:"not null"`
	MinSelect int        `json:"min_select" gorm:"not null;default:0"`
	MaxSelect int        `json:"max_select" gorm:"not null;default:1"`
	Items     []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (m *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID         string          `json:"id" gorm:"primaryKey;size:36"`
	CategoryID string          `json:"category_id" gorm:"not null;index;size:36"`
	Name       string          `json:"name" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
