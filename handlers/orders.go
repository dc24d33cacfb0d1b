package handlers

import (
	"net/http"

	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CreateOrderItemRequest struct {
	DishID         string          `json:"dish_id" binding:"required"`
	Quantity       *int            `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Customizations datatypes.JSON  `json:"customizations"`
}

type CreateOrderRequest struct {
	CustomerID      string                   `json:"customer_id" binding:"required"`
	ChefID          string                   `json:"chef_id" binding:"required"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string                   `json:"delivery_address" binding:"required"`
	DeliveryFee     decimal.Decimal          `json:"delivery_fee"`
	PaymentMethod   models.PaymentMethod     `json:"payment_method" binding:"omitempty,paymentmethod"`
}

type CheckoutItemRequest struct {
	DishID         string         `json:"dish_id" binding:"required"`
	Quantity       *int           `json:"quantity" binding:"omitempty,min=1"`
	Customizations datatypes.JSON `json:"customizations"`
}

type QuickCheckoutRequest struct {
	ChefID          string                `json:"chef_id" binding:"required"`
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string                `json:"delivery_address"`
	DeliveryFee     decimal.Decimal       `json:"delivery_fee"`
	PaymentMethod   models.PaymentMethod  `json:"payment_method" binding:"omitempty,paymentmethod"`
}

type CalculatePlateRequest struct {
	MenuItemIDs []string `json:"menu_item_ids" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// quantityOrOne defaults an omitted quantity. An explicit 0 never gets
// here because binding rejects it.
func quantityOrOne(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}

// CreateOrder stores an order with caller-supplied prices (admin only)
func CreateOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authorize(c, "orders.create", models.RoleAdmin); !ok {
			return
		}
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		in := services.CreateOrderInput{
			CustomerID:      req.CustomerID,
			ChefID:          req.ChefID,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryFee:     req.DeliveryFee,
			PaymentMethod:   req.PaymentMethod,
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, services.OrderItemInput{
				DishID:         it.DishID,
				Quantity:       quantityOrOne(it.Quantity),
				UnitPrice:      it.UnitPrice,
				Customizations: it.Customizations,
			})
		}

		order, err := orders.CreateOrder(c.Request.Context(), in)
		if err != nil {
			respondError(c, "orders.create", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
	}
}

// QuickCheckout places an order for the calling customer at catalog prices
func QuickCheckout(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.checkout", models.RoleCustomer)
		if !ok {
			return
		}
		var req QuickCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		in := services.QuickCheckoutInput{
			ChefID:          req.ChefID,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryFee:     req.DeliveryFee,
			PaymentMethod:   req.PaymentMethod,
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, services.CheckoutItem{
				DishID:         it.DishID,
				Quantity:       quantityOrOne(it.Quantity),
				Customizations: it.Customizations,
			})
		}

		order, err := orders.QuickCheckout(c.Request.Context(), actor.UserID, in)
		if err != nil {
			respondError(c, "orders.checkout", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

// CalculatePlate previews the price of a custom plate. With ?strict=true
// the category selection bounds are enforced.
func CalculatePlate(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CalculatePlateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		calc := orders.CalculatePlate
		if c.Query("strict") == "true" {
			calc = orders.CalculatePlateStrict
		}
		quote, err := calc(c.Request.Context(), req.MenuItemIDs)
		if err != nil {
			respondError(c, "orders.plate", err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

// GetOrder returns the full order including line items
func GetOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.get")
		if !ok {
			return
		}
		order, err := orders.GetOrder(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, "orders.get", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// GetOrderStatus returns the reduced status projection for polling
func GetOrderStatus(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.status")
		if !ok {
			return
		}
		view, err := orders.GetOrderStatus(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, "orders.status", err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetOrderHistory returns the status audit trail
func GetOrderHistory(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.history")
		if !ok {
			return
		}
		history, err := orders.History(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, "orders.history", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(history), "history": history})
	}
}

// UpdateOrderStatus sets a new status on an order (owning chef or admin)
func UpdateOrderStatus(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.update_status", models.RoleChef, models.RoleAdmin)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		change, err := orders.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Note)
		if err != nil {
			respondError(c, "orders.update_status", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":         "Order status updated",
			"order_id":        change.OrderID,
			"previous_status": change.PreviousStatus,
			"current_status":  change.CurrentStatus,
			"nominal":         change.Nominal,
		})
	}
}

// GetMyOrders returns all orders of the logged-in customer
func GetMyOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "orders.mine", models.RoleCustomer)
		if !ok {
			return
		}
		list, err := orders.ListCustomerOrders(c.Request.Context(), actor.UserID)
		if err != nil {
			respondError(c, "orders.mine", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
	}
}

// GetChefOrders returns orders addressed to the logged-in chef
func GetChefOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorize(c, "chefs.orders", models.RoleChef)
		if !ok {
			return
		}
		list, err := orders.ListChefOrders(c.Request.Context(), actor.UserID, models.OrderStatus(c.Query("status")))
		if err != nil {
			respondError(c, "chefs.orders", err)
			return
		}

		summary := map[string]int{}
		for _, o := range list {
			summary[string(o.Status)]++
		}
		c.JSON(http.StatusOK, gin.H{
			"order_summary": summary,
			"count":         len(list),
			"orders":        list,
		})
	}
}
