package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus represents all possible states of a home-cooked order
type OrderStatus string

const (
	StatusNew        OrderStatus = "NEW"
	StatusPreparing  OrderStatus = "PREPARING"
	StatusReady      OrderStatus = "READY"
	StatusDelivering OrderStatus = "DELIVERING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentMethod is a tag only; payments are mocked.
type PaymentMethod string

const (
	PaymentMock      PaymentMethod = "MOCK"
	PaymentStripe    PaymentMethod = "STRIPE"
	PaymentPagSeguro PaymentMethod = "PAGSEGURO"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMock, PaymentStripe, PaymentPagSeguro:
		return true
	}
	return false
}

type Order struct {
	ID              string               `json:"id" gorm:"primaryKey;size:36"`
	CustomerID      string               `json:"customer_id" gorm:"not null;index;size:36"`
	Customer        *Customer            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ChefID          string               `json:"chef_id" gorm:"not null;index;size:36"`
	Chef            *Chef                `json:"chef,omitempty" gorm:"foreignKey:ChefID"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'NEW';index"`
	Subtotal        decimal.Decimal      `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	DeliveryFee     decimal.Decimal      `json:"delivery_fee" gorm:"type:decimal(10,2);not null"`
	Total           decimal.Decimal      `json:"total" gorm:"type:decimal(10,2);not null"`
	DeliveryAddress string               `json:"delivery_address" gorm:"not null"`
	PaymentMethod   PaymentMethod        `json:"payment_method" gorm:"not null;default:'MOCK'"`
	Items           []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID        string          `json:"order_id" gorm:"not null;index;size:36"`
	DishID         string          `json:"dish_id" gorm:"not null;size:36"`
	Dish           *Dish           `json:"dish,omitempty" gorm:"foreignKey:DishID"`
	Quantity       int             `json:"quantity" gorm:"not null;default:1"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	Customizations datatypes.JSON  `json:"customizations,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// OrderStatusHistory is the audit trail of status changes
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"not null;index;size:36"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderStatusView is the reduced projection served to status pollers.
type OrderStatusView struct {
	ID            string          `json:"id"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ChefName      string          `json:"chef_name"`
	CustomerEmail string          `json:"customer_email"`
}
