package ledger

import "github.com/shopspring/decimal"

// DefaultScaleFactor converts a change in index points into currency
// profit. It is a notional multiplier with no market meaning.
var DefaultScaleFactor = decimal.NewFromInt(100)

// PriceChange is exit-entry from the position's point of view: positive
// means the market moved in its favour.
func PriceChange(dir Direction, entry, exit decimal.Decimal) decimal.Decimal {
	change := exit.Sub(entry)
	if dir == Short {
		change = change.Neg()
	}
	return change
}

// Settle returns the signed price change and the resulting profit.
func Settle(dir Direction, entry, exit, scale decimal.Decimal) (change, profit decimal.Decimal) {
	change = PriceChange(dir, entry, exit)
	return change, change.Mul(scale)
}
