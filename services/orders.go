package services

import (
	"context"
	"log"

	"panela-api/apperror"
	"panela-api/models"
	"panela-api/pricing"
	"panela-api/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemInput is a line of a direct order. UnitPrice is taken as given.
type OrderItemInput struct {
	DishID         string
	Quantity       int
	UnitPrice      decimal.Decimal
	Customizations datatypes.JSON
}

type CreateOrderInput struct {
	CustomerID      string
	ChefID          string
	Items           []OrderItemInput
	DeliveryAddress string
	DeliveryFee     decimal.Decimal
	PaymentMethod   models.PaymentMethod
}

// CheckoutItem is a line of a quick checkout; its price is always resolved
// from the catalog.
type CheckoutItem struct {
	DishID         string
	Quantity       int
	Customizations datatypes.JSON
}

type QuickCheckoutInput struct {
	ChefID          string
	Items           []CheckoutItem
	DeliveryAddress string
	DeliveryFee     decimal.Decimal
	PaymentMethod   models.PaymentMethod
}

// StatusChange reports the effect of a status update
type StatusChange struct {
	OrderID        string             `json:"order_id"`
	PreviousStatus models.OrderStatus `json:"previous_status"`
	CurrentStatus  models.OrderStatus `json:"current_status"`
	Nominal        bool               `json:"nominal"`
}

// CheckAmount rejects negative money and amounts finer than a cent, which
// the decimal(10,2) columns would silently round.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperror.Validationf("%s must be zero or greater", field)
	}
	if !pricing.IsCents(d) {
		return apperror.Validationf("%s must have at most 2 decimal places", field)
	}
	return nil
}

func validateAmounts(fee decimal.Decimal, method models.PaymentMethod) error {
	if err := CheckAmount("deliveryFee", fee); err != nil {
		return err
	}
	if method != "" && !method.Valid() {
		return apperror.Validationf("invalid payment method %s", method)
	}
	return nil
}

func paymentOrDefault(m models.PaymentMethod) models.PaymentMethod {
	if m == "" {
		return models.PaymentMock
	}
	return m
}

// CreateOrder persists an order whose unit prices are supplied by a trusted
// caller. No catalog cross-check is made.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.Validationf("an order needs at least one item")
	}
	if in.DeliveryAddress == "" {
		return nil, apperror.Validationf("deliveryAddress is required")
	}
	if err := validateAmounts(in.DeliveryFee, in.PaymentMethod); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := db.First(&models.Customer{}, "id = ?", in.CustomerID).Error; err != nil {
		return nil, notFoundOr(err, "Customer not found")
	}
	if err := db.First(&models.Chef{}, "id = ?", in.ChefID).Error; err != nil {
		return nil, notFoundOr(err, "Chef not found")
	}

	lines := make([]pricing.Line, 0, len(in.Items))
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperror.Validationf("quantity must be at least 1")
		}
		if err := CheckAmount("unitPrice", it.UnitPrice); err != nil {
			return nil, err
		}
		line := pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
		lines = append(lines, line)
		items = append(items, models.OrderItem{
			DishID:         it.DishID,
			Quantity:       line.Quantity,
			UnitPrice:      it.UnitPrice,
			Customizations: it.Customizations,
		})
	}

	order := buildOrder(in.CustomerID, in.ChefID, in.DeliveryAddress, in.DeliveryFee, in.PaymentMethod, lines, items)
	if err := s.persist(ctx, order, "", "Order created"); err != nil {
		return nil, err
	}
	return order, nil
}

// QuickCheckout creates an order for the calling customer with prices
// resolved from the dish catalog. Client prices never reach this path.
func (s *OrderService) QuickCheckout(ctx context.Context, userID string, in QuickCheckoutInput) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	customer, err := CustomerForUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, apperror.Validationf("cart is empty")
	}
	if err := validateAmounts(in.DeliveryFee, in.PaymentMethod); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(in.Items))
	seen := map[string]bool{}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperror.Validationf("quantity must be at least 1")
		}
		if !seen[it.DishID] {
			seen[it.DishID] = true
			ids = append(ids, it.DishID)
		}
	}

	var dishes []models.Dish
	if err := db.Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	if len(dishes) != len(ids) {
		return nil, apperror.Validationf("One or more dishes not found")
	}

	byID := make(map[string]models.Dish, len(dishes))
	chefIDs := map[string]bool{}
	for _, d := range dishes {
		byID[d.ID] = d
		chefIDs[d.ChefID] = true
	}
	if len(chefIDs) != 1 {
		return nil, apperror.Validationf("All dishes must belong to the same chef")
	}
	if !chefIDs[in.ChefID] {
		return nil, apperror.Validationf("Dishes do not belong to the selected chef")
	}

	lines := make([]pricing.Line, 0, len(in.Items))
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		dish := byID[it.DishID]
		line := pricing.Line{UnitPrice: dish.Price, Quantity: it.Quantity}
		lines = append(lines, line)
		items = append(items, models.OrderItem{
			DishID:         dish.ID,
			Quantity:       line.Quantity,
			UnitPrice:      dish.Price,
			Customizations: it.Customizations,
		})
	}

	address := in.DeliveryAddress
	if address == "" {
		address = customer.DefaultAddress
	}
	if address == "" {
		return nil, apperror.Validationf("deliveryAddress is required")
	}

	order := buildOrder(customer.ID, in.ChefID, address, in.DeliveryFee, in.PaymentMethod, lines, items)
	if err := s.persist(ctx, order, userID, "Order placed by customer"); err != nil {
		return nil, err
	}
	return order, nil
}

func buildOrder(customerID, chefID, address string, fee decimal.Decimal, method models.PaymentMethod, lines []pricing.Line, items []models.OrderItem) *models.Order {
	subtotal := pricing.Subtotal(lines)
	return &models.Order{
		CustomerID:      customerID,
		ChefID:          chefID,
		Status:          models.StatusNew,
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		Total:           pricing.Total(subtotal, fee),
		DeliveryAddress: address,
		PaymentMethod:   paymentOrDefault(method),
		Items:           items,
	}
}

// persist writes the order, its items and the initial history row in one
// transaction.
func (s *OrderService) persist(ctx context.Context, order *models.Order, changedBy, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusNew,
			ChangedBy: changedBy,
			Note:      note,
		}).Error
	})
}

// authorize checks that the actor may see or act on the order.
func (s *OrderService) authorize(ctx context.Context, actor Actor, order *models.Order) error {
	return s.authorizeIn(ctx, s.db, actor, order)
}

func (s *OrderService) authorizeIn(ctx context.Context, db *gorm.DB, actor Actor, order *models.Order) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCustomer:
		customer, err := CustomerForUser(ctx, db, actor.UserID)
		if err != nil {
			return err
		}
		if customer.ID != order.CustomerID {
			return apperror.Forbiddenf("This order does not belong to you")
		}
		return nil
	case models.RoleChef:
		chef, err := ChefForUser(ctx, db, actor.UserID)
		if err != nil {
			return err
		}
		if chef.ID != order.ChefID {
			return apperror.Forbiddenf("This order does not belong to your kitchen")
		}
		return nil
	}
	return apperror.Forbiddenf("Access denied")
}

// GetOrder returns the full order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if err := s.authorize(ctx, actor, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderStatus returns the reduced projection used by status polling.
func (s *OrderService) GetOrderStatus(ctx context.Context, actor Actor, id string) (*models.OrderStatusView, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Chef").
		Preload("Customer.User").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if err := s.authorize(ctx, actor, &order); err != nil {
		return nil, err
	}

	view := &models.OrderStatusView{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	if order.Chef != nil {
		view.ChefName = order.Chef.KitchenName
	}
	if order.Customer != nil && order.Customer.User != nil {
		view.CustomerEmail = order.Customer.User.Email
	}
	return view, nil
}

// UpdateStatus moves an order to any known status. Moves outside the
// published lifecycle are accepted and noted in the history.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id string, status models.OrderStatus, note string) (*StatusChange, error) {
	if err := statemachine.CanTransition("", status); err != nil {
		return nil, apperror.Validationf("%s", err.Error())
	}

	if actor.Role == models.RoleCustomer {
		return nil, apperror.Forbiddenf("Customers cannot change order status")
	}

	var (
		order   models.Order
		prev    models.OrderStatus
		nominal bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// read and write under one transaction so the recorded from-status
		// is the one actually replaced
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Order not found")
		}
		if err := s.authorizeIn(ctx, tx, actor, &order); err != nil {
			return err
		}

		prev = order.Status
		nominal = statemachine.IsNominal(prev, status)
		if !nominal {
			log.Printf("[orders] non-sequential status change %s -> %s on order %s", prev, status, order.ID)
			if note == "" {
				note = "non-sequential transition"
			} else {
				note = "non-sequential transition: " + note
			}
		}

		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   status,
			ChangedBy:  actor.UserID,
			Note:       note,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &StatusChange{
		OrderID:        order.ID,
		PreviousStatus: prev,
		CurrentStatus:  status,
		Nominal:        nominal,
	}, nil
}

// ListCustomerOrders returns the caller's orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, userID string) ([]models.Order, error) {
	customer, err := CustomerForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	err = s.db.WithContext(ctx).Preload("Items").Preload("Chef").
		Where("customer_id = ?", customer.ID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// ListChefOrders returns orders addressed to the caller's kitchen,
// optionally filtered by status.
func (s *OrderService) ListChefOrders(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error) {
	chef, err := ChefForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).Preload("Items.Dish").Preload("Customer.User").
		Where("chef_id = ?", chef.ID)
	if status != "" {
		if !statemachine.IsValid(status) {
			return nil, apperror.Validationf("invalid status %s", status)
		}
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err = query.Order("created_at desc").Find(&orders).Error
	return orders, err
}

// History returns the status audit trail of an order.
func (s *OrderService) History(ctx context.Context, actor Actor, id string) ([]models.OrderStatusHistory, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var history []models.OrderStatusHistory
	err = s.db.WithContext(ctx).Where("order_id = ?", order.ID).Order("id asc").Find(&history).Error
	return history, err
}
