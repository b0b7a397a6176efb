package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormat(t *testing.T) {
	m := NewMoney("R$ ")
	assert.Equal(t, "R$ 1.234,50", m.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", m.Format(decimal.Zero))
}
