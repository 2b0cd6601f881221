package market

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNoData = errors.New("price data unavailable")
	ErrRange  = errors.New("invalid series range")
)

// PriceSource is read-only access to the loaded prediction tables.
type PriceSource interface {
	LatestPrice(instrument Instrument) (decimal.Decimal, error)
	Series(instrument Instrument, start, end int) ([]PriceRecord, error)
	Len(instrument Instrument) int
}
