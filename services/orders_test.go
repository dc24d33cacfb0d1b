package services

import (
	"testing"

	"panela-api/apperror"
	"panela-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func TestQuickCheckoutUsesCatalogPrices(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha da Maria")
	user, customer := seedCustomer(t, db, "ana@test.com")
	d1 := seedDish(t, db, chef, "Feijoada", "15.00")
	d2 := seedDish(t, db, chef, "Pudim", "8.50")

	svc := NewOrderService(db)
	order, err := svc.QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items: []CheckoutItem{
			{DishID: d1.ID, Quantity: 2},
			{DishID: d2.ID, Quantity: 1, Customizations: datatypes.JSON(`{"calda":"extra"}`)},
		},
		DeliveryAddress: "Av. Paulista, 1000",
		DeliveryFee:     money("5.00"),
	})
	if err != nil {
		t.Fatalf("QuickCheckout: %v", err)
	}

	var stored models.Order
	if err := db.Preload("Items").First(&stored, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if !stored.Subtotal.Equal(money("38.50")) {
		t.Fatalf("expected subtotal 38.50, got %s", stored.Subtotal)
	}
	if !stored.Total.Equal(money("43.50")) {
		t.Fatalf("expected total 43.50, got %s", stored.Total)
	}
	if stored.Status != models.StatusNew {
		t.Fatalf("expected NEW, got %s", stored.Status)
	}
	if stored.CustomerID != customer.ID || stored.ChefID != chef.ID {
		t.Fatalf("order not owned by resolved customer/chef: %+v", stored)
	}
	if stored.PaymentMethod != models.PaymentMock {
		t.Fatalf("expected default payment MOCK, got %s", stored.PaymentMethod)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(stored.Items))
	}
	prices := map[string]decimal.Decimal{}
	for _, it := range stored.Items {
		prices[it.DishID] = it.UnitPrice
	}
	if !prices[d1.ID].Equal(money("15.00")) || !prices[d2.ID].Equal(money("8.50")) {
		t.Fatalf("unexpected unit prices %v", prices)
	}
	if got := countRows(t, db, &models.OrderStatusHistory{}); got != 1 {
		t.Fatalf("expected initial history row, got %d", got)
	}
}

func TestQuickCheckoutSnapshotSurvivesPriceChange(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	user, _ := seedCustomer(t, db, "bia@test.com")
	dish := seedDish(t, db, chef, "Moqueca", "40.00")

	order, err := NewOrderService(db).QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items:  []CheckoutItem{{DishID: dish.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("QuickCheckout: %v", err)
	}
	if err := db.Model(dish).Update("price", money("99.00")).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}

	var item models.OrderItem
	db.First(&item, "order_id = ?", order.ID)
	if !item.UnitPrice.Equal(money("40.00")) || item.Quantity != 1 {
		t.Fatalf("snapshot changed: price=%s qty=%d", item.UnitPrice, item.Quantity)
	}
	if order.DeliveryAddress != "Rua das Flores, 10" {
		t.Fatalf("expected default address fallback, got %q", order.DeliveryAddress)
	}
}

func TestQuickCheckoutRejectsMixedChefs(t *testing.T) {
	db := newTestDB(t)
	_, c1 := seedChef(t, db, "Cozinha Um")
	_, c2 := seedChef(t, db, "Cozinha Dois")
	user, _ := seedCustomer(t, db, "caio@test.com")
	d1 := seedDish(t, db, c1, "Arroz", "10.00")
	d2 := seedDish(t, db, c2, "Bife", "20.00")

	_, err := NewOrderService(db).QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: c1.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 1}, {DishID: d2.ID, Quantity: 1}},
	})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("expected no orders written, got %d", n)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 0 {
		t.Fatalf("expected no items written, got %d", n)
	}
}

func TestQuickCheckoutRejectsChefMismatch(t *testing.T) {
	db := newTestDB(t)
	_, c1 := seedChef(t, db, "Cozinha Um")
	_, c2 := seedChef(t, db, "Cozinha Dois")
	user, _ := seedCustomer(t, db, "duda@test.com")
	d1 := seedDish(t, db, c1, "Arroz", "10.00")

	_, err := NewOrderService(db).QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: c2.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 1}},
	})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Dishes do not belong to the selected chef" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestQuickCheckoutUnknownDish(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	user, _ := seedCustomer(t, db, "edu@test.com")
	d1 := seedDish(t, db, chef, "Arroz", "10.00")

	_, err := NewOrderService(db).QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 1}, {DishID: "missing", Quantity: 1}},
	})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuickCheckoutRepeatedDishCountsBothLines(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	user, _ := seedCustomer(t, db, "fabi@test.com")
	d1 := seedDish(t, db, chef, "Coxinha", "6.00")

	order, err := NewOrderService(db).QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 2}, {DishID: d1.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("QuickCheckout: %v", err)
	}
	if !order.Subtotal.Equal(money("30.00")) || len(order.Items) != 2 {
		t.Fatalf("unexpected order subtotal=%s items=%d", order.Subtotal, len(order.Items))
	}
}

func TestQuickCheckoutWithoutCustomerProfile(t *testing.T) {
	db := newTestDB(t)
	chefUser, chef := seedChef(t, db, "Cozinha")
	d1 := seedDish(t, db, chef, "Arroz", "10.00")

	_, err := NewOrderService(db).QuickCheckout(ctx, chefUser.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 1}},
	})
	if !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuickCheckoutRejectsNegativeFeeAndEmptyCart(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	user, _ := seedCustomer(t, db, "gabi@test.com")
	d1 := seedDish(t, db, chef, "Arroz", "10.00")
	svc := NewOrderService(db)

	_, err := svc.QuickCheckout(ctx, user.ID, QuickCheckoutInput{ChefID: chef.ID})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
	_, err = svc.QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID:      chef.ID,
		Items:       []CheckoutItem{{DishID: d1.ID, Quantity: 1}},
		DeliveryFee: money("-1"),
	})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error for negative fee, got %v", err)
	}
	_, err = svc.QuickCheckout(ctx, user.ID, QuickCheckoutInput{
		ChefID: chef.ID,
		Items:  []CheckoutItem{{DishID: d1.ID, Quantity: 0}},
	})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("rejected checkouts stored %d orders", n)
	}
}

func TestCreateOrderTrustsSuppliedPrices(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, customer := seedCustomer(t, db, "hugo@test.com")
	dish := seedDish(t, db, chef, "Lasanha", "30.00")

	order, err := NewOrderService(db).CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.ID,
		ChefID:     chef.ID,
		Items: []OrderItemInput{
			{DishID: dish.ID, Quantity: 3, UnitPrice: money("12.10")},
			{DishID: dish.ID, Quantity: 1, UnitPrice: money("0.30")},
		},
		DeliveryAddress: "Rua A, 1",
		DeliveryFee:     money("7.00"),
		PaymentMethod:   models.PaymentPagSeguro,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.Subtotal.Equal(money("36.60")) || !order.Total.Equal(money("43.60")) {
		t.Fatalf("unexpected totals subtotal=%s total=%s", order.Subtotal, order.Total)
	}
	if order.PaymentMethod != models.PaymentPagSeguro {
		t.Fatalf("unexpected payment method %s", order.PaymentMethod)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, customer := seedCustomer(t, db, "iris@test.com")
	svc := NewOrderService(db)
	base := CreateOrderInput{
		CustomerID:      customer.ID,
		ChefID:          chef.ID,
		Items:           []OrderItemInput{{DishID: "d", Quantity: 1, UnitPrice: money("1")}},
		DeliveryAddress: "Rua B",
	}

	cases := []struct {
		name   string
		mutate func(in *CreateOrderInput)
		kind   apperror.Kind
	}{
		{"no items", func(in *CreateOrderInput) { in.Items = nil }, apperror.Validation},
		{"no address", func(in *CreateOrderInput) { in.DeliveryAddress = "" }, apperror.Validation},
		{"negative fee", func(in *CreateOrderInput) { in.DeliveryFee = money("-0.01") }, apperror.Validation},
		{"bad payment", func(in *CreateOrderInput) { in.PaymentMethod = "PIX" }, apperror.Validation},
		{"sub-cent fee", func(in *CreateOrderInput) { in.DeliveryFee = money("2.999") }, apperror.Validation},
		{"negative price", func(in *CreateOrderInput) { in.Items = []OrderItemInput{{DishID: "d", Quantity: 1, UnitPrice: money("-1")}} }, apperror.Validation},
		{"sub-cent price", func(in *CreateOrderInput) { in.Items = []OrderItemInput{{DishID: "d", Quantity: 1, UnitPrice: money("1.005")}} }, apperror.Validation},
		{"zero quantity", func(in *CreateOrderInput) { in.Items = []OrderItemInput{{DishID: "d", Quantity: 0, UnitPrice: money("15")}} }, apperror.Validation},
		{"unknown customer", func(in *CreateOrderInput) { in.CustomerID = "nobody" }, apperror.NotFound},
		{"unknown chef", func(in *CreateOrderInput) { in.ChefID = "nobody" }, apperror.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := svc.CreateOrder(ctx, in); !apperror.Is(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("expected nothing written, got %d orders", n)
	}
}

func placeOrder(t *testing.T, svc *OrderService, userID, chefID, dishID string) *models.Order {
	t.Helper()
	order, err := svc.QuickCheckout(ctx, userID, QuickCheckoutInput{
		ChefID: chefID,
		Items:  []CheckoutItem{{DishID: dishID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("QuickCheckout: %v", err)
	}
	return order
}

func TestGetOrderAndStatusProjection(t *testing.T) {
	db := newTestDB(t)
	chefUser, chef := seedChef(t, db, "Cozinha da Maria")
	custUser, _ := seedCustomer(t, db, "joao@test.com")
	otherUser, _ := seedCustomer(t, db, "outro@test.com")
	dish := seedDish(t, db, chef, "Feijoada", "15.00")
	svc := NewOrderService(db)
	order := placeOrder(t, svc, custUser.ID, chef.ID, dish.ID)

	full, err := svc.GetOrder(ctx, Actor{UserID: custUser.ID, Role: models.RoleCustomer}, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(full.Items) != 1 {
		t.Fatalf("expected items in full read, got %d", len(full.Items))
	}

	view, err := svc.GetOrderStatus(ctx, Actor{UserID: chefUser.ID, Role: models.RoleChef}, order.ID)
	if err != nil {
		t.Fatalf("GetOrderStatus: %v", err)
	}
	if view.ChefName != "Cozinha da Maria" || view.CustomerEmail != "joao@test.com" {
		t.Fatalf("unexpected projection %+v", view)
	}
	if view.Status != models.StatusNew || !view.Total.Equal(money("15.00")) {
		t.Fatalf("unexpected projection %+v", view)
	}

	_, err = svc.GetOrder(ctx, Actor{UserID: otherUser.ID, Role: models.RoleCustomer}, order.ID)
	if !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected forbidden for another customer, got %v", err)
	}
	_, err = svc.GetOrderStatus(ctx, Actor{UserID: custUser.ID, Role: models.RoleCustomer}, "missing")
	if !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusIsPermissive(t *testing.T) {
	db := newTestDB(t)
	chefUser, chef := seedChef(t, db, "Cozinha")
	custUser, _ := seedCustomer(t, db, "kiko@test.com")
	dish := seedDish(t, db, chef, "Arroz", "10.00")
	svc := NewOrderService(db)
	order := placeOrder(t, svc, custUser.ID, chef.ID, dish.ID)
	chefActor := Actor{UserID: chefUser.ID, Role: models.RoleChef}

	change, err := svc.UpdateStatus(ctx, chefActor, order.ID, models.StatusCompleted, "")
	if err != nil {
		t.Fatalf("NEW -> COMPLETED should be accepted: %v", err)
	}
	if change.PreviousStatus != models.StatusNew || change.CurrentStatus != models.StatusCompleted || change.Nominal {
		t.Fatalf("unexpected change %+v", change)
	}

	history, err := svc.History(ctx, chefActor, order.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[1].Note != "non-sequential transition" {
		t.Fatalf("unexpected history %+v", history)
	}

	if _, err := svc.UpdateStatus(ctx, chefActor, order.ID, "SHIPPED", ""); !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	custActor := Actor{UserID: custUser.ID, Role: models.RoleCustomer}
	if _, err := svc.UpdateStatus(ctx, custActor, order.ID, models.StatusCancelled, ""); !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}
}

func TestUpdateStatusByForeignChefIsForbidden(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha Um")
	otherUser, _ := seedChef(t, db, "Cozinha Dois")
	custUser, _ := seedCustomer(t, db, "lia@test.com")
	dish := seedDish(t, db, chef, "Arroz", "10.00")
	svc := NewOrderService(db)
	order := placeOrder(t, svc, custUser.ID, chef.ID, dish.ID)

	_, err := svc.UpdateStatus(ctx, Actor{UserID: otherUser.ID, Role: models.RoleChef}, order.ID, models.StatusPreparing, "")
	if !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if n := countRows(t, db, &models.OrderStatusHistory{}); n != 1 {
		t.Fatalf("forbidden change wrote history, have %d rows", n)
	}
	_, err = svc.UpdateStatus(ctx, Actor{UserID: "admin", Role: models.RoleAdmin}, "no-such-order", models.StatusPreparing, "")
	if !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = svc.UpdateStatus(ctx, Actor{UserID: "admin", Role: models.RoleAdmin}, order.ID, models.StatusPreparing, "")
	if err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}

	var last models.OrderStatusHistory
	if err := db.First(&last, "order_id = ? AND to_status = ?", order.ID, models.StatusPreparing).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if last.FromStatus != models.StatusNew || last.ToStatus != models.StatusPreparing {
		t.Fatalf("history recorded %s -> %s", last.FromStatus, last.ToStatus)
	}
}

func TestListOrders(t *testing.T) {
	db := newTestDB(t)
	chefUser, chef := seedChef(t, db, "Cozinha")
	custUser, _ := seedCustomer(t, db, "mia@test.com")
	dish := seedDish(t, db, chef, "Arroz", "10.00")
	svc := NewOrderService(db)
	first := placeOrder(t, svc, custUser.ID, chef.ID, dish.ID)
	placeOrder(t, svc, custUser.ID, chef.ID, dish.ID)
	if _, err := svc.UpdateStatus(ctx, Actor{UserID: chefUser.ID, Role: models.RoleChef}, first.ID, models.StatusPreparing, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	mine, err := svc.ListCustomerOrders(ctx, custUser.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected 2 customer orders, got %d (%v)", len(mine), err)
	}
	preparing, err := svc.ListChefOrders(ctx, chefUser.ID, models.StatusPreparing)
	if err != nil || len(preparing) != 1 || preparing[0].ID != first.ID {
		t.Fatalf("expected the preparing order, got %+v (%v)", preparing, err)
	}
	if _, err := svc.ListChefOrders(ctx, chefUser.ID, "BOGUS"); !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
