package market

import "github.com/shopspring/decimal"

// PriceRecord is one row of a prediction table.
type PriceRecord struct {
	Index     int
	Day       string
	Actual    decimal.Decimal
	Predicted decimal.Decimal
}

// Error is the signed difference between the predicted and actual price.
func (r PriceRecord) Error() decimal.Decimal {
	return r.Predicted.Sub(r.Actual)
}
