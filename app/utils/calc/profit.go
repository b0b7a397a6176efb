package calc

import "github.com/shopspring/decimal"

// ProfitMargin is a flat heuristic: there is no per-product cost basis.
var ProfitMargin = decimal.NewFromFloat(0.20)

func Profit(totalPrice decimal.Decimal) decimal.Decimal {
	return totalPrice.Mul(ProfitMargin)
}

func TotalProfit(totals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(Profit(t))
	}
	return sum
}
