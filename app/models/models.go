package models

import "github.com/shopspring/decimal"

func init() {
	// prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every table owned by the application, in migration order.
func All() []interface{} {
	return []interface{}{&Category{}, &Product{}, &Sale{}, &PriceHistory{}, &User{}}
}

// Page is the envelope of every paginated list response.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}
