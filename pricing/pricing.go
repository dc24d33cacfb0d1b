// Package pricing holds the money arithmetic shared by checkout and the
// plate calculator. All amounts are exact decimals.
package pricing

import "github.com/shopspring/decimal"

// Line is one priced entry of an order.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Qty applies the default quantity of 1 to an omitted value.
func Qty(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// IsCents reports whether d has no precision below a cent.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(Qty(l.Quantity))))
}

func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return sum
}

func Total(subtotal, deliveryFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee)
}

// Sum adds plain prices, used by the plate calculator.
func Sum(prices []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, prices...)
}
