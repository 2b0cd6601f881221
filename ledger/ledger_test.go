package ledger

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJournal struct {
	trades  []journal.TradeRecord
	balance []journal.BalanceSnapshot
	fail    bool
}

func (j *testJournal) RecordTrade(rec journal.TradeRecord) error {
	if j.fail {
		return errors.New("disk full")
	}
	j.trades = append(j.trades, rec)
	return nil
}

func (j *testJournal) RecordBalance(rec journal.BalanceSnapshot) error {
	if j.fail {
		return errors.New("disk full")
	}
	j.balance = append(j.balance, rec)
	return nil
}

func (j *testJournal) Close() error { return nil }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setPrice(prices *market.Store, inst market.Instrument, px string) {
	prices.Append(inst, market.PriceRecord{Actual: d(px), Predicted: d(px)})
}

func newLedger(t *testing.T, balance string, opts ...Option) (*Ledger, *market.Store, *testJournal) {
	t.Helper()

	prices := market.NewStore()
	j := &testJournal{}
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Minute)
	}

	opts = append([]Option{WithJournal(j), WithClock(clock), WithSession("S1")}, opts...)
	return New(d(balance), prices, opts...), prices, j
}

func assertAccount(t *testing.T, l *Ledger, balance, active, realized string) {
	t.Helper()

	acct := l.Account()
	assert.True(t, acct.Balance.Equal(d(balance)), "balance: got %s want %s", acct.Balance, balance)
	assert.True(t, acct.ActiveInvestment.Equal(d(active)), "active: got %s want %s", acct.ActiveInvestment, active)
	assert.True(t, acct.RealizedProfit.Equal(d(realized)), "realized: got %s want %s", acct.RealizedProfit, realized)
	require.NoError(t, l.Verify())
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	l, _, j := newLedger(t, "10000")
	require.NoError(t, l.Deposit(d("500")))
	assertAccount(t, l, "10500", "0", "0")

	require.NoError(t, l.Deposit(decimal.Zero))
	assertAccount(t, l, "10500", "0", "0")

	err := l.Deposit(d("-1"))
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assertAccount(t, l, "10500", "0", "0")

	require.Len(t, j.balance, 2)
	assert.Equal(t, "deposit", j.balance[0].Event)
	assert.Equal(t, "S1", j.balance[0].Session)
	assert.True(t, j.balance[0].Balance.Equal(d("10500")))
}

func TestWithdrawReject(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "10000")
	assert.Equal(t, WithdrawReject, l.WithdrawPolicy())

	taken, err := l.Withdraw(d("2500.50"))
	require.NoError(t, err)
	assert.True(t, taken.Equal(d("2500.50")))
	assertAccount(t, l, "7499.50", "0", "0")

	_, err = l.Withdraw(d("7499.51"))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assertAccount(t, l, "7499.50", "0", "0")

	_, err = l.Withdraw(d("-5"))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	taken, err = l.Withdraw(d("7499.50"))
	require.NoError(t, err)
	assert.True(t, taken.Equal(d("7499.50")))
	assertAccount(t, l, "0", "0", "0")
}

func TestWithdrawClamp(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "1000", WithWithdrawPolicy(WithdrawClamp))

	taken, err := l.Withdraw(d("1500"))
	require.NoError(t, err)
	assert.True(t, taken.Equal(d("1000")))
	assertAccount(t, l, "0", "0", "0")

	taken, err = l.Withdraw(d("1"))
	require.NoError(t, err)
	assert.True(t, taken.IsZero())
	assertAccount(t, l, "0", "0", "0")
}

func TestUpdateFunds(t *testing.T) {
	t.Parallel()

	l, _, j := newLedger(t, "10000")

	taken, err := l.UpdateFunds(d("100"), d("10100"))
	require.NoError(t, err)
	assert.True(t, taken.Equal(d("10100")))
	assertAccount(t, l, "0", "0", "0")

	_, err = l.UpdateFunds(d("50"), d("51"))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assertAccount(t, l, "0", "0", "0")

	_, err = l.UpdateFunds(d("-1"), d("0"))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	require.Len(t, j.balance, 1)
	assert.Equal(t, "update", j.balance[0].Event)
}

func TestFundsAfterLossBelowZero(t *testing.T) {
	t.Parallel()

	for _, policy := range []WithdrawPolicy{WithdrawReject, WithdrawClamp} {
		t.Run(string(policy), func(t *testing.T) {
			l, _, _ := newLedger(t, "1000", WithWithdrawPolicy(policy))

			_, err := l.OpenAt(Long, d("1000"), d("4500"))
			require.NoError(t, err)
			_, err = l.CloseAt(1, d("4480"))
			require.NoError(t, err)
			assertAccount(t, l, "-1000", "0", "-2000")

			taken, err := l.Withdraw(decimal.Zero)
			require.NoError(t, err)
			assert.True(t, taken.IsZero())
			assertAccount(t, l, "-1000", "0", "-2000")

			taken, err = l.UpdateFunds(d("100"), decimal.Zero)
			require.NoError(t, err)
			assert.True(t, taken.IsZero())
			assertAccount(t, l, "-900", "0", "-2000")

			require.NoError(t, l.Deposit(d("1400")))
			assertAccount(t, l, "500", "0", "-2000")
		})
	}

	l, _, _ := newLedger(t, "1000")
	_, err := l.OpenAt(Short, d("1000"), d("4500"))
	require.NoError(t, err)
	_, err = l.CloseAt(1, d("4520"))
	require.NoError(t, err)

	_, err = l.Withdraw(d("1"))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assertAccount(t, l, "-1000", "0", "-2000")
}

func TestOpenAndCloseScenario(t *testing.T) {
	t.Parallel()

	l, prices, j := newLedger(t, "10000")
	setPrice(prices, market.SP500, "4500")

	pos, err := l.Open(Long, d("500"))
	require.NoError(t, err)
	assert.Equal(t, 1, pos.ID)
	assert.Equal(t, StatusOpen, pos.Status)
	assert.True(t, pos.EntryPrice.Equal(d("4500")))
	assert.Nil(t, pos.ClosedAt)
	assert.Nil(t, pos.Profit)
	assertAccount(t, l, "9500", "500", "0")

	setPrice(prices, market.SP500, "4510")

	closed, err := l.Close(pos.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)
	require.NotNil(t, closed.ExitPrice)
	require.NotNil(t, closed.PriceChange)
	require.NotNil(t, closed.Profit)
	require.NotNil(t, closed.ClosedAt)
	assert.True(t, closed.ExitPrice.Equal(d("4510")))
	assert.True(t, closed.PriceChange.Equal(d("10")))
	assert.True(t, closed.Profit.Equal(d("1000")))
	assert.True(t, closed.ClosedAt.After(closed.OpenedAt))
	assertAccount(t, l, "11000", "0", "1000")

	require.Len(t, j.trades, 1)
	rec := j.trades[0]
	assert.Equal(t, "S1-1", rec.TradeID)
	assert.Equal(t, "SP500", rec.Instrument)
	assert.Equal(t, "Long", rec.Direction)
	assert.Equal(t, "ManualClose", rec.Reason)
	assert.True(t, rec.Profit.Equal(d("1000")))

	events := make([]string, len(j.balance))
	for i, b := range j.balance {
		events[i] = b.Event
	}
	assert.Equal(t, []string{"open", "close"}, events)
}

func TestRoundTripUnchangedPrice(t *testing.T) {
	t.Parallel()

	for _, dir := range []Direction{Long, Short} {
		t.Run(dir.String(), func(t *testing.T) {
			l, prices, _ := newLedger(t, "10000")
			setPrice(prices, market.SP500, "4321.5")

			pos, err := l.Open(dir, d("750"))
			require.NoError(t, err)
			closed, err := l.Close(pos.ID)
			require.NoError(t, err)

			assert.True(t, closed.Profit.IsZero())
			assertAccount(t, l, "10000", "0", "0")
		})
	}
}

func TestShortProfitIsInverted(t *testing.T) {
	t.Parallel()

	profit := func(dir Direction) decimal.Decimal {
		l, _, _ := newLedger(t, "10000")
		pos, err := l.OpenAt(dir, d("500"), d("100"))
		require.NoError(t, err)
		closed, err := l.CloseAt(pos.ID, d("110"))
		require.NoError(t, err)
		return *closed.Profit
	}

	assert.True(t, profit(Long).Equal(d("1000")))
	assert.True(t, profit(Short).Equal(d("-1000")))

	l, _, _ := newLedger(t, "10000")
	pos, err := l.OpenAt(Short, d("500"), d("100"))
	require.NoError(t, err)
	_, err = l.CloseAt(pos.ID, d("110"))
	require.NoError(t, err)
	assertAccount(t, l, "9000", "0", "-1000")
}

func TestCloseTwiceIsRejected(t *testing.T) {
	t.Parallel()

	l, prices, j := newLedger(t, "10000")
	setPrice(prices, market.SP500, "4500")

	pos, err := l.Open(Long, d("500"))
	require.NoError(t, err)
	setPrice(prices, market.SP500, "4510")
	_, err = l.Close(pos.ID)
	require.NoError(t, err)

	before := l.Account()
	setPrice(prices, market.SP500, "4600")

	_, err = l.Close(pos.ID)
	assert.True(t, errors.Is(err, ErrInvalidPositionState))
	_, err = l.CloseAt(pos.ID, d("4600"))
	assert.True(t, errors.Is(err, ErrInvalidPositionState))

	assert.Equal(t, before, l.Account())
	assert.Len(t, j.trades, 1)

	p, err := l.Position(pos.ID)
	require.NoError(t, err)
	assert.True(t, p.ExitPrice.Equal(d("4510")))
}

func TestCloseUnknownPosition(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "10000")

	for _, posID := range []int{0, 1, -3} {
		_, err := l.Close(posID)
		assert.True(t, errors.Is(err, ErrInvalidPositionState), "id %d", posID)
		_, err = l.CloseAt(posID, d("1"))
		assert.True(t, errors.Is(err, ErrInvalidPositionState), "id %d", posID)
	}
	_, err := l.Position(1)
	assert.True(t, errors.Is(err, ErrInvalidPositionState))
}

func TestOpenValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dir   Direction
		stake string
		entry string
		want  error
	}{
		{"zero stake", Long, "0", "100", ErrInvalidAmount},
		{"negative stake", Long, "-100", "100", ErrInvalidAmount},
		{"stake above balance", Short, "1000.01", "100", ErrInsufficientFunds},
		{"bad direction", Direction(0), "100", "100", ErrInvalidDirection},
		{"zero price", Long, "100", "0", ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, j := newLedger(t, "1000")
			_, err := l.OpenAt(tt.dir, d(tt.stake), d(tt.entry))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assertAccount(t, l, "1000", "0", "0")
			assert.Empty(t, l.Positions())
			assert.Empty(t, j.balance)
		})
	}
}

func TestOpenWholeBalance(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "1000")
	_, err := l.OpenAt(Long, d("1000"), d("10"))
	require.NoError(t, err)
	assertAccount(t, l, "0", "1000", "0")
}

func TestNoPriceData(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "1000")
	_, err := l.Open(Long, d("100"))
	assert.True(t, errors.Is(err, market.ErrNoData))

	pos, err := l.OpenAt(Long, d("100"), d("10"))
	require.NoError(t, err)
	_, err = l.Close(pos.ID)
	assert.True(t, errors.Is(err, market.ErrNoData))
	assertAccount(t, l, "900", "100", "0")

	bare := New(d("1000"), nil)
	_, err = bare.Open(Short, d("100"))
	assert.True(t, errors.Is(err, market.ErrNoData))
}

func TestReferenceInstrument(t *testing.T) {
	t.Parallel()

	l, prices, _ := newLedger(t, "10000", WithReferenceInstrument(market.IBEX35))
	assert.Equal(t, market.IBEX35, l.ReferenceInstrument())

	setPrice(prices, market.SP500, "4500")
	setPrice(prices, market.IBEX35, "10000")

	pos, err := l.Open(Long, d("100"))
	require.NoError(t, err)
	assert.True(t, pos.EntryPrice.Equal(d("10000")))

	setPrice(prices, market.SP500, "1")
	setPrice(prices, market.IBEX35, "10001.5")

	closed, err := l.Close(pos.ID)
	require.NoError(t, err)
	assert.True(t, closed.Profit.Equal(d("150")))
}

func TestScaleFactor(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "10000", WithScaleFactor(d("2.5")))
	assert.True(t, l.ScaleFactor().Equal(d("2.5")))

	pos, err := l.OpenAt(Long, d("500"), d("100"))
	require.NoError(t, err)
	closed, err := l.CloseAt(pos.ID, d("104"))
	require.NoError(t, err)
	assert.True(t, closed.Profit.Equal(d("10")))
	assertAccount(t, l, "10010", "0", "10")
}

func TestCloseAll(t *testing.T) {
	t.Parallel()

	l, prices, j := newLedger(t, "10000")
	setPrice(prices, market.SP500, "100")

	_, err := l.Open(Long, d("1000"))
	require.NoError(t, err)
	second, err := l.Open(Short, d("2000"))
	require.NoError(t, err)
	_, err = l.Open(Long, d("3000"))
	require.NoError(t, err)

	setPrice(prices, market.SP500, "99")
	_, err = l.Close(second.ID)
	require.NoError(t, err)
	assertAccount(t, l, "6100", "4000", "100")

	setPrice(prices, market.SP500, "102")
	closed, err := l.CloseAll()
	require.NoError(t, err)
	require.Len(t, closed, 2)
	assert.Equal(t, 1, closed[0].ID)
	assert.Equal(t, 3, closed[1].ID)
	assert.Equal(t, "CloseAll", j.trades[len(j.trades)-1].Reason)
	assertAccount(t, l, "10500", "0", "500")

	again, err := l.CloseAll()
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPositionsAreCopies(t *testing.T) {
	t.Parallel()

	l, _, _ := newLedger(t, "10000")
	pos, err := l.OpenAt(Long, d("500"), d("100"))
	require.NoError(t, err)
	_, err = l.CloseAt(pos.ID, d("101"))
	require.NoError(t, err)

	list := l.Positions()
	require.Len(t, list, 1)
	*list[0].Profit = d("999999")
	list[0].Stake = d("1")

	again, err := l.Position(pos.ID)
	require.NoError(t, err)
	assert.True(t, again.Profit.Equal(d("100")))
	assert.True(t, again.Stake.Equal(d("500")))
}

func TestAutoMode(t *testing.T) {
	t.Parallel()

	l, _, j := newLedger(t, "10000")
	assert.False(t, l.AutoMode())
	l.SetAutoMode(true)
	assert.True(t, l.AutoMode())
	l.SetAutoMode(false)
	assert.False(t, l.AutoMode())

	assertAccount(t, l, "10000", "0", "0")
	assert.Empty(t, l.Positions())
	assert.Empty(t, j.balance)
}

func TestJournalFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	l, _, j := newLedger(t, "10000")
	j.fail = true

	pos, err := l.OpenAt(Long, d("500"), d("100"))
	require.NoError(t, err)
	_, err = l.CloseAt(pos.ID, d("101"))
	require.NoError(t, err)
	assertAccount(t, l, "10100", "0", "100")
}

func TestSessionIDs(t *testing.T) {
	t.Parallel()

	a := New(d("1"), nil)
	b := New(d("1"), nil)
	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())

	c := New(d("1"), nil, WithSession("mine"))
	assert.Equal(t, "mine", c.Session())
}

// Random operation sequences never break the account invariants, and a
// rejected operation never changes anything.
func TestInvariantsUnderRandomOperations(t *testing.T) {
	t.Parallel()

	for _, policy := range []WithdrawPolicy{WithdrawReject, WithdrawClamp} {
		t.Run(string(policy), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			l, _, _ := newLedger(t, "10000", WithWithdrawPolicy(policy))

			for i := 0; i < 2000; i++ {
				before := l.Account()
				amount := decimal.NewFromInt(int64(rng.Intn(3000) - 200))
				px := decimal.NewFromInt(int64(4400 + rng.Intn(200)))

				var err error
				switch rng.Intn(5) {
				case 0:
					err = l.Deposit(amount)
				case 1:
					_, err = l.Withdraw(amount)
				case 2:
					dir := Long
					if rng.Intn(2) == 0 {
						dir = Short
					}
					_, err = l.OpenAt(dir, amount, px)
				case 3, 4:
					n := len(l.Positions())
					_, err = l.CloseAt(rng.Intn(n+2), px)
				}

				require.NoError(t, l.Verify(), "step %d", i)
				if err != nil {
					assert.Equal(t, before, l.Account(), "step %d: %v", i, err)
				}
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Direction{"long": Long, "LONG": Long, "l": Long, "short": Short, " Short ": Short, "s": Short} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
	assert.Equal(t, "Direction(7)", Direction(7).String())
}

func TestParseWithdrawPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseWithdrawPolicy("")
	require.NoError(t, err)
	assert.Equal(t, WithdrawReject, p)

	p, err = ParseWithdrawPolicy("Clamp")
	require.NoError(t, err)
	assert.Equal(t, WithdrawClamp, p)

	_, err = ParseWithdrawPolicy("overdraft")
	assert.Error(t, err)
}
