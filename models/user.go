package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role defines allowed roles in the system
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleChef     Role = "CHEF"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleChef, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Chef         *Chef     `json:"chef,omitempty" gorm:"foreignKey:UserID"`
	Customer     *Customer `json:"customer,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Chef is the kitchen profile owned by a CHEF user.
type Chef struct {
	ID             string                      `json:"id" gorm:"primaryKey;size:36"`
	UserID         string                      `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	User           *User                       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	KitchenName    string                      `json:"kitchen_name"`
	Bio            string                      `json:"bio"`
	CuisineTypes   datatypes.JSONSlice[string] `json:"cuisine_types"`
	Location       string                      `json:"location"`
	Approved       bool                        `json:"approved" gorm:"default:false"`
	OpeningHours   datatypes.JSON              `json:"opening_hours,omitempty"`
	DeliveryRadius int                         `json:"delivery_radius_km"`
	PhotoURL       string                      `json:"photo_url"`
	Dishes         []Dish                      `json:"dishes,omitempty" gorm:"foreignKey:ChefID"`
	Ratings        []Rating                    `json:"ratings,omitempty" gorm:"foreignKey:ChefID"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (c *Chef) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Customer is the ordering profile owned by a CUSTOMER user.
type Customer struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	User           *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DefaultAddress string    `json:"default_address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
