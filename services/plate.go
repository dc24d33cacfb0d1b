package services

import (
	"context"
	"sort"

	"panela-api/apperror"
	"panela-api/models"
	"panela-api/pricing"

	"github.com/shopspring/decimal"
)

// PlateQuote is a price preview for a build-your-own plate.
type PlateQuote struct {
	Items []models.MenuItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// CalculatePlate prices a selection of menu items. Every occurrence of an id
// is counted, and ids that do not resolve are dropped without error.
func (s *OrderService) CalculatePlate(ctx context.Context, menuItemIDs []string) (*PlateQuote, error) {
	resolved, err := s.resolveMenuItems(ctx, menuItemIDs)
	if err != nil {
		return nil, err
	}

	quote := &PlateQuote{Items: []models.MenuItem{}}
	prices := make([]decimal.Decimal, 0, len(menuItemIDs))
	for _, id := range menuItemIDs {
		item, ok := resolved[id]
		if !ok {
			continue
		}
		quote.Items = append(quote.Items, item)
		prices = append(prices, item.Price)
	}
	quote.Total = pricing.Sum(prices)
	return quote, nil
}

// CalculatePlateStrict prices a selection after enforcing that every id
// resolves, all items come from one chef, and each of that chef's
// categories receives between MinSelect and MaxSelect items.
func (s *OrderService) CalculatePlateStrict(ctx context.Context, menuItemIDs []string) (*PlateQuote, error) {
	if len(menuItemIDs) == 0 {
		return nil, apperror.Validationf("select at least one item")
	}
	resolved, err := s.resolveMenuItems(ctx, menuItemIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range menuItemIDs {
		if _, ok := resolved[id]; !ok {
			return nil, apperror.Validationf("menu item %s not found", id)
		}
	}

	categoryIDs := map[string]bool{}
	for _, item := range resolved {
		categoryIDs[item.CategoryID] = true
	}
	ids := make([]string, 0, len(categoryIDs))
	for id := range categoryIDs {
		ids = append(ids, id)
	}
	var picked []models.MenuCategory
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&picked).Error; err != nil {
		return nil, err
	}
	chefs := map[string]bool{}
	for _, c := range picked {
		chefs[c.ChefID] = true
	}
	if len(chefs) != 1 {
		return nil, apperror.Validationf("All plate items must come from the same chef")
	}

	var categories []models.MenuCategory
	if err := s.db.WithContext(ctx).Where("chef_id = ?", picked[0].ChefID).Find(&categories).Error; err != nil {
		return nil, err
	}
	selected := make([]models.MenuItem, 0, len(menuItemIDs))
	for _, id := range menuItemIDs {
		selected = append(selected, resolved[id])
	}
	if err := ValidatePlateSelection(categories, selected); err != nil {
		return nil, err
	}
	return s.CalculatePlate(ctx, menuItemIDs)
}

// ValidatePlateSelection checks per-category selection counts against the
// inclusive MinSelect/MaxSelect bounds.
func ValidatePlateSelection(categories []models.MenuCategory, selected []models.MenuItem) error {
	counts := map[string]int{}
	for _, item := range selected {
		counts[item.CategoryID]++
	}
	known := map[string]bool{}
	sorted := append([]models.MenuCategory(nil), categories...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, c := range sorted {
		known[c.ID] = true
		n := counts[c.ID]
		if n < c.MinSelect {
			return apperror.Validationf("%s: choose at least %d item(s)", c.Name, c.MinSelect)
		}
		if n > c.MaxSelect {
			return apperror.Validationf("%s: choose at most %d item(s)", c.Name, c.MaxSelect)
		}
	}
	for id := range counts {
		if !known[id] {
			return apperror.Validationf("menu category %s is not part of this menu", id)
		}
	}
	return nil
}

func (s *OrderService) resolveMenuItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	out := map[string]models.MenuItem{}
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}
