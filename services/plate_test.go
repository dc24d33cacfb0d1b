package services

import (
	"testing"

	"panela-api/apperror"
	"panela-api/models"
)

func TestCalculatePlateSumsResolvedItems(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, items := seedCategory(t, db, chef, "Base", 0, 3, "10", "5", "7")

	quote, err := NewOrderService(db).CalculatePlate(ctx, []string{items[0].ID, items[1].ID, items[2].ID})
	if err != nil {
		t.Fatalf("CalculatePlate: %v", err)
	}
	if !quote.Total.Equal(money("22")) || len(quote.Items) != 3 {
		t.Fatalf("expected total 22 with 3 items, got %s with %d", quote.Total, len(quote.Items))
	}
}

func TestCalculatePlateDropsUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, items := seedCategory(t, db, chef, "Base", 0, 3, "10", "5")

	quote, err := NewOrderService(db).CalculatePlate(ctx, []string{items[0].ID, "ghost", items[1].ID})
	if err != nil {
		t.Fatalf("unknown ids must not raise: %v", err)
	}
	if !quote.Total.Equal(money("15")) || len(quote.Items) != 2 {
		t.Fatalf("expected total 15 with 2 items, got %s with %d", quote.Total, len(quote.Items))
	}
}

func TestCalculatePlateCountsDuplicates(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, items := seedCategory(t, db, chef, "Proteina", 0, 2, "12.50")

	quote, err := NewOrderService(db).CalculatePlate(ctx, []string{items[0].ID, items[0].ID})
	if err != nil {
		t.Fatalf("CalculatePlate: %v", err)
	}
	if !quote.Total.Equal(money("25.00")) || len(quote.Items) != 2 {
		t.Fatalf("expected 25.00 with 2 items, got %s with %d", quote.Total, len(quote.Items))
	}
}

func TestCalculatePlateEmptySelection(t *testing.T) {
	db := newTestDB(t)
	quote, err := NewOrderService(db).CalculatePlate(ctx, nil)
	if err != nil {
		t.Fatalf("CalculatePlate: %v", err)
	}
	if !quote.Total.IsZero() || len(quote.Items) != 0 {
		t.Fatalf("expected empty quote, got %+v", quote)
	}
}

func TestCalculatePlateStrictEnforcesBounds(t *testing.T) {
	db := newTestDB(t)
	_, chef := seedChef(t, db, "Cozinha")
	_, bases := seedCategory(t, db, chef, "Base", 1, 1, "8", "9")
	_, sides := seedCategory(t, db, chef, "Acompanhamento", 0, 2, "3", "4", "5")
	svc := NewOrderService(db)

	quote, err := svc.CalculatePlateStrict(ctx, []string{bases[0].ID, sides[0].ID, sides[1].ID})
	if err != nil {
		t.Fatalf("valid plate rejected: %v", err)
	}
	if !quote.Total.Equal(money("15")) {
		t.Fatalf("expected 15, got %s", quote.Total)
	}

	cases := map[string][]string{
		"missing required base": {sides[0].ID},
		"two bases":             {bases[0].ID, bases[1].ID},
		"too many sides":        {bases[0].ID, sides[0].ID, sides[1].ID, sides[2].ID},
		"unknown id":            {bases[0].ID, "ghost"},
		"empty":                 {},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CalculatePlateStrict(ctx, ids); !apperror.Is(err, apperror.Validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCalculatePlateStrictRejectsMixedChefs(t *testing.T) {
	db := newTestDB(t)
	_, c1 := seedChef(t, db, "Cozinha Um")
	_, c2 := seedChef(t, db, "Cozinha Dois")
	_, a := seedCategory(t, db, c1, "Base", 0, 1, "8")
	_, b := seedCategory(t, db, c2, "Base", 0, 1, "9")

	_, err := NewOrderService(db).CalculatePlateStrict(ctx, []string{a[0].ID, b[0].ID})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidatePlateSelection(t *testing.T) {
	cats := []models.MenuCategory{{ID: "c1", Name: "Base", MinSelect: 1, MaxSelect: 2}}
	if err := ValidatePlateSelection(cats, []models.MenuItem{{CategoryID: "c1"}}); err != nil {
		t.Fatalf("expected valid selection, got %v", err)
	}
	err := ValidatePlateSelection(cats, []models.MenuItem{{CategoryID: "c1"}, {CategoryID: "other"}})
	if !apperror.Is(err, apperror.Validation) {
		t.Fatalf("expected foreign category to be rejected, got %v", err)
	}
}
