package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	tradesHeader  = []string{"trade_id", "session", "position_id", "instrument", "direction", "stake", "entry_price", "exit_price", "price_change", "profit", "open_time", "close_time", "reason"}
	balanceHeader = []string{"time", "session", "event", "balance", "active_investment", "realized_profit"}
)

type CSVJournal struct {
	trades  *csv.Writer
	balance *csv.Writer
	tf, bf  *os.File
}

// NewCSV opens the trades and balance files for appending, so earlier
// sessions are kept. The header is written only to an empty file.
func NewCSV(tradesPath, balancePath string) (*CSVJournal, error) {
	tf, tw, err := openCSV(tradesPath, tradesHeader)
	if err != nil {
		return nil, err
	}
	bf, bw, err := openCSV(balancePath, balanceHeader)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return &CSVJournal{trades: tw, balance: bw, tf: tf, bf: bf}, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("%s: write header: %w", path, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("%s: write header: %w", path, err)
		}
	}
	return f, w, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Session,
		strconv.Itoa(t.PositionID),
		t.Instrument,
		t.Direction,
		money(t.Stake),
		price(t.EntryPrice),
		price(t.ExitPrice),
		price(t.PriceChange),
		money(t.Profit),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordBalance(b BalanceSnapshot) error {
	err := j.balance.Write([]string{
		b.Time.Format(time.RFC3339),
		b.Session,
		b.Event,
		money(b.Balance),
		money(b.ActiveInvestment),
		money(b.RealizedProfit),
	})
	if err != nil {
		return err
	}

	j.balance.Flush()
	return j.balance.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.balance.Flush()
	if err := j.balance.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.bf.Close(); err != nil {
		return err
	}
	return nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func price(d decimal.Decimal) string { return d.StringFixed(4) }
