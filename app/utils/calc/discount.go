package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// ApplyDiscount returns price minus discountPercent of it, floored at zero and
// rounded half-up to cents.
func ApplyDiscount(price, discountPercent decimal.Decimal) decimal.Decimal {
	discounted := price.Sub(CalculateDiscount(price, discountPercent))
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted.Round(2)
}

func ValidDiscountPercent(discountPercent decimal.Decimal) bool {
	return !discountPercent.IsNegative() && discountPercent.LessThanOrEqual(hundred)
}
