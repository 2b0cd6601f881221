package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WithdrawPolicy decides what happens when a withdrawal exceeds the balance.
type WithdrawPolicy string

const (
	// WithdrawReject fails the withdrawal with ErrInsufficientFunds.
	WithdrawReject WithdrawPolicy = "reject"
	// WithdrawClamp withdraws whatever is left, leaving a zero balance.
	WithdrawClamp WithdrawPolicy = "clamp"
)

func ParseWithdrawPolicy(s string) (WithdrawPolicy, error) {
	switch p := WithdrawPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return WithdrawReject, nil
	case WithdrawReject, WithdrawClamp:
		return p, nil
	}
	return "", fmt.Errorf("unknown withdraw policy %q", s)
}

type Option func(*Ledger)

// WithReferenceInstrument sets the feed every position is priced against.
func WithReferenceInstrument(inst market.Instrument) Option {
	return func(l *Ledger) { l.reference = inst }
}

func WithScaleFactor(scale decimal.Decimal) Option {
	return func(l *Ledger) { l.scale = scale }
}

func WithWithdrawPolicy(p WithdrawPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithJournal(j journal.Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithSession overrides the generated session id.
func WithSession(session string) Option {
	return func(l *Ledger) { l.session = session }
}
