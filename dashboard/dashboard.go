// Package dashboard maps the operations offered by the dashboard pages
// onto a ledger and a price source, applying the input bounds of the
// interactive controls.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/rnndash/ledger"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrAutoModeDisabled = errors.New("auto mode is disabled")
	ErrStakeOutOfBounds = errors.New("stake out of bounds")
)

// DefaultMinStake is the smallest stake the open-position control offers.
var DefaultMinStake = decimal.NewFromInt(100)

const (
	// A view always starts at least this many records before the end.
	viewStartMargin = 100
	// A view spans at least this many records when the series allows it.
	viewMinSpan = 50
)

type Session struct {
	ledger   *ledger.Ledger
	prices   market.PriceSource
	minStake decimal.Decimal
	log      *zap.Logger
}

type Option func(*Session)

func WithMinStake(min decimal.Decimal) Option {
	return func(s *Session) { s.minStake = min }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

func New(l *ledger.Ledger, prices market.PriceSource, opts ...Option) *Session {
	s := &Session{
		ledger:   l,
		prices:   prices,
		minStake: DefaultMinStake,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary is the status header shown above every page.
type Summary struct {
	Session          string
	Reference        market.Instrument
	Balance          decimal.Decimal
	ActiveInvestment decimal.Decimal
	RealizedProfit   decimal.Decimal
	AutoMode         bool
	OpenPositions    int
	ClosedPositions  int
}

func (s *Session) Summary() Summary {
	acct := s.ledger.Account()
	sum := Summary{
		Session:          s.ledger.Session(),
		Reference:        s.ledger.ReferenceInstrument(),
		Balance:          acct.Balance,
		ActiveInvestment: acct.ActiveInvestment,
		RealizedProfit:   acct.RealizedProfit,
		AutoMode:         s.ledger.AutoMode(),
	}
	for _, p := range s.ledger.Positions() {
		if p.IsOpen() {
			sum.OpenPositions++
		} else {
			sum.ClosedPositions++
		}
	}
	return sum
}

// View is a window onto one instrument's prediction series.
type View struct {
	Instrument market.Instrument
	Start      int
	End        int
	Len        int
	Records    []market.PriceRecord
}

func (s *Session) View(inst market.Instrument, start, end int) (View, error) {
	return Window(s.prices, inst, start, end)
}

// Window returns the records in [start, end) after clamping the range the
// way the range sliders do: start lies in [0, max(0, len-100)] and end in
// [min(start+50, len), len].
func Window(prices market.PriceSource, inst market.Instrument, start, end int) (View, error) {
	n := prices.Len(inst)
	if n == 0 {
		return View{}, fmt.Errorf("view %s: %w", inst, market.ErrNoData)
	}

	start = clamp(start, 0, max(0, n-viewStartMargin))
	end = clamp(end, min(start+viewMinSpan, n), n)

	recs, err := prices.Series(inst, start, end)
	if err != nil {
		return View{}, fmt.Errorf("view %s: %w", inst, err)
	}
	return View{Instrument: inst, Start: start, End: end, Len: n, Records: recs}, nil
}

// Instruments lists the instruments that have data loaded.
func (s *Session) Instruments() []market.Instrument {
	var out []market.Instrument
	for _, inst := range market.InstrumentList() {
		if s.prices.Len(inst) > 0 {
			out = append(out, inst)
		}
	}
	return out
}

func (s *Session) Deposit(amount decimal.Decimal) error {
	return s.ledger.Deposit(amount)
}

func (s *Session) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	return s.ledger.Withdraw(amount)
}

// UpdateFunds applies both fields of the funds form in one step.
func (s *Session) UpdateFunds(deposit, withdraw decimal.Decimal) (decimal.Decimal, error) {
	return s.ledger.UpdateFunds(deposit, withdraw)
}

func (s *Session) SetAutoMode(on bool) {
	s.ledger.SetAutoMode(on)
}

// ToggleAutoMode flips the auto-mode flag and returns the new value.
func (s *Session) ToggleAutoMode() bool {
	on := !s.ledger.AutoMode()
	s.ledger.SetAutoMode(on)
	return on
}

// StakeBounds is the range the stake control allows: the minimum stake
// up to the whole balance. ok is false when the balance is below the
// minimum and no position can be opened.
func (s *Session) StakeBounds() (lo, hi decimal.Decimal, ok bool) {
	bal := s.ledger.Account().Balance
	return s.minStake, bal, bal.GreaterThanOrEqual(s.minStake)
}

// OpenPosition opens a position at the reference price. It is only
// available in auto mode and the stake must lie within StakeBounds.
func (s *Session) OpenPosition(dir ledger.Direction, stake decimal.Decimal) (ledger.Position, error) {
	if !s.ledger.AutoMode() {
		return ledger.Position{}, fmt.Errorf("open position: %w", ErrAutoModeDisabled)
	}

	lo, hi, _ := s.StakeBounds()
	if stake.LessThan(lo) {
		return ledger.Position{}, fmt.Errorf("open position: %w: %s below minimum %s", ErrStakeOutOfBounds, stake, lo)
	}
	if stake.GreaterThan(hi) {
		return ledger.Position{}, fmt.Errorf("open position: %w: %w: %s above balance %s",
			ErrStakeOutOfBounds, ledger.ErrInsufficientFunds, stake, hi)
	}

	p, err := s.ledger.Open(dir, stake)
	if err != nil {
		s.log.Warn("open position", zap.Stringer("direction", dir), zap.Stringer("stake", stake), zap.Error(err))
		return ledger.Position{}, err
	}
	return p, nil
}

func (s *Session) ClosePosition(posID int) (ledger.Position, error) {
	p, err := s.ledger.Close(posID)
	if err != nil {
		s.log.Warn("close position", zap.Int("id", posID), zap.Error(err))
		return ledger.Position{}, err
	}
	return p, nil
}

func (s *Session) CloseAll() ([]ledger.Position, error) {
	return s.ledger.CloseAll()
}

func (s *Session) Positions() []ledger.Position {
	return s.ledger.Positions()
}

// ReferencePrice is the price a position opened now would be entered at.
func (s *Session) ReferencePrice() (decimal.Decimal, error) {
	return s.prices.LatestPrice(s.ledger.ReferenceInstrument())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
