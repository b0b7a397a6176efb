package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var brands = []string{"Acme", "Nova", "Prime", "Fazenda", "Bom Dia", "Sol"}

func fakePrice() float64 {
	return math.Round((rand.Float64()*95+5)*100) / 100
}

func CategoryFaker() services.CategoryInput {
	pct := decimal.NewFromInt(int64(rand.Intn(4) * 5))
	return services.CategoryInput{
		Name:               faker.Word() + " " + faker.Word(),
		Description:        faker.Sentence(),
		DiscountPercentage: &pct,
	}
}

func ProductFaker(categoryID *string) services.ProductInput {
	price := decimal.NewFromFloat(fakePrice())
	return services.ProductInput{
		Name:        faker.Word() + " " + faker.Word() + " " + faker.UUIDDigit()[:6],
		Description: faker.Paragraph(),
		Price:       &price,
		Brand:       brands[rand.Intn(len(brands))],
		CategoryID:  categoryID,
	}
}

// SaleFaker makes a sale of the product at unitPrice somewhere in the last
// year.
func SaleFaker(productID string, unitPrice decimal.Decimal) services.SaleInput {
	qty := rand.Intn(10) + 1
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
	date := time.Now().Add(-time.Duration(rand.Int63n(int64(365 * 24 * time.Hour))))
	return services.SaleInput{
		ProductID:  productID,
		Quantity:   qty,
		TotalPrice: &total,
		Date:       &date,
	}
}
