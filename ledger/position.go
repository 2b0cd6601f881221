package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a position: +1 long, -1 short.
type Direction int

const (
	Long  Direction = 1
	Short Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "Long"
	case Short:
		return "Short"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) valid() bool { return d == Long || d == Short }

// ParseDirection accepts "long"/"short" and the single letters "l"/"s".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "l", "buy":
		return Long, nil
	case "short", "s", "sell":
		return Short, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

type Status int

const (
	StatusOpen Status = iota
	StatusClosed
)

func (s Status) String() string {
	if s == StatusClosed {
		return "Closed"
	}
	return "Open"
}

// Position is one simulated trade. The settlement fields are nil until
// the position is closed.
type Position struct {
	ID         int
	Direction  Direction
	Stake      decimal.Decimal
	EntryPrice decimal.Decimal
	Status     Status
	OpenedAt   time.Time

	ClosedAt    *time.Time
	ExitPrice   *decimal.Decimal
	PriceChange *decimal.Decimal
	Profit      *decimal.Decimal
}

func (p *Position) IsOpen() bool { return p.Status == StatusOpen }

// clone returns a copy that shares no pointers with p.
func (p *Position) clone() Position {
	c := *p
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		c.ClosedAt = &t
	}
	c.ExitPrice = cloneDec(p.ExitPrice)
	c.PriceChange = cloneDec(p.PriceChange)
	c.Profit = cloneDec(p.Profit)
	return c
}

func cloneDec(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
