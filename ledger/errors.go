package ledger

import "errors"

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidPositionState = errors.New("invalid position state")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDirection     = errors.New("invalid direction")
	ErrInvalidPrice         = errors.New("invalid price")
)
