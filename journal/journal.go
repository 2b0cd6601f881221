// journal/journal.go
package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is a settled position.
type TradeRecord struct {
	TradeID     string
	Session     string
	PositionID  int
	Instrument  string
	Direction   string
	Stake       decimal.Decimal
	EntryPrice  decimal.Decimal
	ExitPrice   decimal.Decimal
	PriceChange decimal.Decimal
	Profit      decimal.Decimal
	OpenTime    time.Time
	CloseTime   time.Time
	Reason      string
}

// BalanceSnapshot is the account state right after a ledger operation.
type BalanceSnapshot struct {
	Time             time.Time
	Session          string
	Event            string
	Balance          decimal.Decimal
	ActiveInvestment decimal.Decimal
	RealizedProfit   decimal.Decimal
}

// Journal is an append-only audit trail. Nothing reads it back into a
// ledger.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) RecordBalance(BalanceSnapshot) error { return nil }
func (Nop) Close() error { return nil }

// Open builds a journal from its type name: "none", "csv" or "sqlite".
func Open(kind, tradesPath, balancePath, dbPath string) (Journal, error) {
	switch kind {
	case "", "none":
		return Nop{}, nil
	case "csv":
		j, err := NewCSV(tradesPath, balancePath)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := NewSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", kind)
}
