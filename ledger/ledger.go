package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/rnndash/internal/id"
	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource supplies the current price of the reference instrument.
type PriceSource interface {
	LatestPrice(instrument market.Instrument) (decimal.Decimal, error)
}

type Account struct {
	Balance          decimal.Decimal
	ActiveInvestment decimal.Decimal
	RealizedProfit   decimal.Decimal
}

// Ledger owns one session's account and position history. Every
// operation is applied as a unit: a failed call leaves no trace.
type Ledger struct {
	mu        sync.Mutex
	session   string
	acct      Account
	positions []*Position
	autoMode  bool

	prices    PriceSource
	reference market.Instrument
	scale     decimal.Decimal
	policy    WithdrawPolicy
	now       func() time.Time
	journal   journal.Journal
	log       *zap.Logger
}

func New(balance decimal.Decimal, prices PriceSource, opts ...Option) *Ledger {
	l := &Ledger{
		acct:      Account{Balance: balance},
		prices:    prices,
		reference: market.SP500,
		scale:     DefaultScaleFactor,
		policy:    WithdrawReject,
		now:       time.Now,
		journal:   journal.Nop{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.session == "" {
		l.session = id.New()
	}
	l.log = l.log.With(zap.String("session", l.session))
	return l
}

func (l *Ledger) Session() string { return l.session }
func (l *Ledger) ReferenceInstrument() market.Instrument { return l.reference }
func (l *Ledger) ScaleFactor() decimal.Decimal { return l.scale }
func (l *Ledger) WithdrawPolicy() WithdrawPolicy { return l.policy }

func (l *Ledger) Account() Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acct
}

// Positions returns every position in creation order.
func (l *Ledger) Positions() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Position, len(l.positions))
	for i, p := range l.positions {
		out[i] = p.clone()
	}
	return out
}

func (l *Ledger) Position(posID int) (Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.lookupLocked(posID)
	if err != nil {
		return Position{}, err
	}
	return p.clone(), nil
}

// SetAutoMode stores the automatic-mode flag. It schedules nothing.
func (l *Ledger) SetAutoMode(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoMode = on
	l.log.Debug("auto mode", zap.Bool("enabled", on))
}

func (l *Ledger) AutoMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoMode
}

func (l *Ledger) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("deposit %s: %w", amount, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.acct.Balance = l.acct.Balance.Add(amount)
	l.log.Info("deposit", zap.Stringer("amount", amount), zap.Stringer("balance", l.acct.Balance))
	l.recordBalanceLocked("deposit")
	return nil
}

// Withdraw takes amount out of the balance and returns what was actually
// withdrawn, which differs from amount only under WithdrawClamp.
func (l *Ledger) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("withdraw %s: %w", amount, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	taken, err := l.withdrawable(l.acct.Balance, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw %s: %w", amount, err)
	}

	l.acct.Balance = l.acct.Balance.Sub(taken)
	l.log.Info("withdraw", zap.Stringer("amount", taken), zap.Stringer("balance", l.acct.Balance))
	l.recordBalanceLocked("withdraw")
	return taken, nil
}

// UpdateFunds deposits and withdraws in one step; the withdrawal is
// checked against the balance after the deposit.
func (l *Ledger) UpdateFunds(deposit, withdraw decimal.Decimal) (decimal.Decimal, error) {
	if deposit.IsNegative() || withdraw.IsNegative() {
		return decimal.Zero, fmt.Errorf("update funds +%s -%s: %w", deposit, withdraw, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.acct.Balance.Add(deposit)
	taken, err := l.withdrawable(available, withdraw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("update funds +%s -%s: %w", deposit, withdraw, err)
	}

	l.acct.Balance = available.Sub(taken)
	l.log.Info("update funds",
		zap.Stringer("deposit", deposit),
		zap.Stringer("withdraw", taken),
		zap.Stringer("balance", l.acct.Balance))
	l.recordBalanceLocked("update")
	return taken, nil
}

func (l *Ledger) withdrawable(available, amount decimal.Decimal) (decimal.Decimal, error) {
	// Nothing to take: a negative balance must still accept deposits.
	if amount.IsZero() || amount.LessThanOrEqual(available) {
		return amount, nil
	}
	if l.policy == WithdrawClamp {
		return decimal.Max(available, decimal.Zero), nil
	}
	return decimal.Zero, fmt.Errorf("%w: balance %s", ErrInsufficientFunds, available)
}

// Open opens a position at the latest reference price.
func (l *Ledger) Open(dir Direction, stake decimal.Decimal) (Position, error) {
	px, err := l.referencePrice()
	if err != nil {
		return Position{}, fmt.Errorf("open position: %w", err)
	}
	return l.OpenAt(dir, stake, px)
}

// OpenAt opens a position at an explicit entry price.
func (l *Ledger) OpenAt(dir Direction, stake, entry decimal.Decimal) (Position, error) {
	if !dir.valid() {
		return Position{}, fmt.Errorf("open position: %w: %d", ErrInvalidDirection, int(dir))
	}
	if !stake.IsPositive() {
		return Position{}, fmt.Errorf("open position: stake %s: %w", stake, ErrInvalidAmount)
	}
	if !entry.IsPositive() {
		return Position{}, fmt.Errorf("open position: entry %s: %w", entry, ErrInvalidPrice)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if stake.GreaterThan(l.acct.Balance) {
		return Position{}, fmt.Errorf("open position: stake %s: %w: balance %s", stake, ErrInsufficientFunds, l.acct.Balance)
	}

	p := &Position{
		ID:         len(l.positions) + 1,
		Direction:  dir,
		Stake:      stake,
		EntryPrice: entry,
		Status:     StatusOpen,
		OpenedAt:   l.now(),
	}
	l.positions = append(l.positions, p)
	l.acct.Balance = l.acct.Balance.Sub(stake)
	l.acct.ActiveInvestment = l.acct.ActiveInvestment.Add(stake)

	l.log.Info("open position",
		zap.Int("id", p.ID),
		zap.Stringer("direction", dir),
		zap.Stringer("stake", stake),
		zap.Stringer("entry", entry))
	l.recordBalanceLocked("open")
	return p.clone(), nil
}

// Close settles a position at the latest reference price.
func (l *Ledger) Close(posID int) (Position, error) {
	p, err := l.Position(posID)
	if err != nil {
		return Position{}, fmt.Errorf("close position: %w", err)
	}
	if !p.IsOpen() {
		return Position{}, fmt.Errorf("close position %d: %w: already closed", posID, ErrInvalidPositionState)
	}

	px, err := l.referencePrice()
	if err != nil {
		return Position{}, fmt.Errorf("close position %d: %w", posID, err)
	}
	return l.CloseAt(posID, px)
}

// CloseAt settles a position at an explicit exit price.
func (l *Ledger) CloseAt(posID int, exit decimal.Decimal) (Position, error) {
	if !exit.IsPositive() {
		return Position{}, fmt.Errorf("close position %d: exit %s: %w", posID, exit, ErrInvalidPrice)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.lookupLocked(posID)
	if err != nil {
		return Position{}, fmt.Errorf("close position: %w", err)
	}
	if !p.IsOpen() {
		return Position{}, fmt.Errorf("close position %d: %w: already closed", posID, ErrInvalidPositionState)
	}

	l.closeLocked(p, exit, l.now(), "ManualClose")
	l.recordBalanceLocked("close")
	return p.clone(), nil
}

// CloseAll settles every open position against one price snapshot.
func (l *Ledger) CloseAll() ([]Position, error) {
	px, err := l.referencePrice()
	if err != nil {
		return nil, fmt.Errorf("close all: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var closed []Position
	at := l.now()
	for _, p := range l.positions {
		if !p.IsOpen() {
			continue
		}
		l.closeLocked(p, px, at, "CloseAll")
		closed = append(closed, p.clone())
	}
	if len(closed) > 0 {
		l.recordBalanceLocked("close_all")
	}
	return closed, nil
}

func (l *Ledger) closeLocked(p *Position, exit decimal.Decimal, at time.Time, reason string) {
	change, profit := Settle(p.Direction, p.EntryPrice, exit, l.scale)

	p.Status = StatusClosed
	p.ClosedAt = &at
	p.ExitPrice = &exit
	p.PriceChange = &change
	p.Profit = &profit

	l.acct.RealizedProfit = l.acct.RealizedProfit.Add(profit)
	l.acct.ActiveInvestment = l.acct.ActiveInvestment.Sub(p.Stake)
	l.acct.Balance = l.acct.Balance.Add(p.Stake).Add(profit)

	l.log.Info("close position",
		zap.Int("id", p.ID),
		zap.Stringer("exit", exit),
		zap.Stringer("change", change),
		zap.Stringer("profit", profit),
		zap.String("reason", reason))

	err := l.journal.RecordTrade(journal.TradeRecord{
		TradeID:     fmt.Sprintf("%s-%d", l.session, p.ID),
		Session:     l.session,
		PositionID:  p.ID,
		Instrument:  string(l.reference),
		Direction:   p.Direction.String(),
		Stake:       p.Stake,
		EntryPrice:  p.EntryPrice,
		ExitPrice:   exit,
		PriceChange: change,
		Profit:      profit,
		OpenTime:    p.OpenedAt,
		CloseTime:   at,
		Reason:      reason,
	})
	if err != nil {
		l.log.Warn("journal trade", zap.Int("id", p.ID), zap.Error(err))
	}
}

// Verify checks the account totals against the position history.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	active, realized := decimal.Zero, decimal.Zero
	for _, p := range l.positions {
		if p.IsOpen() {
			active = active.Add(p.Stake)
		} else if p.Profit != nil {
			realized = realized.Add(*p.Profit)
		}
	}
	if !active.Equal(l.acct.ActiveInvestment) {
		return fmt.Errorf("active investment %s, open stakes sum to %s", l.acct.ActiveInvestment, active)
	}
	if !realized.Equal(l.acct.RealizedProfit) {
		return fmt.Errorf("realized profit %s, closed positions sum to %s", l.acct.RealizedProfit, realized)
	}
	return nil
}

func (l *Ledger) lookupLocked(posID int) (*Position, error) {
	if posID < 1 || posID > len(l.positions) {
		return nil, fmt.Errorf("position %d: %w: not found", posID, ErrInvalidPositionState)
	}
	return l.positions[posID-1], nil
}

func (l *Ledger) referencePrice() (decimal.Decimal, error) {
	if l.prices == nil {
		return decimal.Zero, fmt.Errorf("reference price %s: %w", l.reference, market.ErrNoData)
	}
	px, err := l.prices.LatestPrice(l.reference)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reference price: %w", err)
	}
	return px, nil
}

// recordBalanceLocked is best effort: the journal observes the ledger and
// never vetoes an operation.
func (l *Ledger) recordBalanceLocked(event string) {
	err := l.journal.RecordBalance(journal.BalanceSnapshot{
		Time:             l.now(),
		Session:          l.session,
		Event:            event,
		Balance:          l.acct.Balance,
		ActiveInvestment: l.acct.ActiveInvestment,
		RealizedProfit:   l.acct.RealizedProfit,
	})
	if err != nil {
		l.log.Warn("journal balance", zap.String("event", event), zap.Error(err))
	}
}
