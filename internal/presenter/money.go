package presenter

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every quoted price.
const Currency = money.INR

// FormatPrice renders a price with the currency symbol and grouping, e.g.
// "₹3,500.00".
func FormatPrice(v float64) string {
	cur := money.GetCurrency(Currency)
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(v).Mul(factor).Round(0)
	return money.New(minor.IntPart(), Currency).Display()
}
