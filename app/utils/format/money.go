package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Money formats amounts for human-facing output. The symbol is configured at
// start-up (CURRENCY_SYMBOL); the separators follow pt-BR.
type Money struct {
	ac accounting.Accounting
}

func NewMoney(symbol string) *Money {
	return &Money{ac: accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ".", Decimal: ","}}
}

func (m *Money) Format(amount decimal.Decimal) string {
	return m.ac.FormatMoneyDecimal(amount)
}
