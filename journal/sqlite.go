package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Times are stored in UTC so range queries compare consistently.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, session, position_id, instrument, direction, stake, entry_price, exit_price, price_change, profit, open_time, close_time, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Session, t.PositionID, t.Instrument, t.Direction,
		t.Stake, t.EntryPrice, t.ExitPrice, t.PriceChange, t.Profit,
		t.OpenTime.UTC(), t.CloseTime.UTC(), t.Reason,
	)
	return err
}

func (j *SQLite) RecordBalance(b BalanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO balance
		(time, session, event, balance, active_investment, realized_profit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Time.UTC(), b.Session, b.Event, b.Balance, b.ActiveInvestment, b.RealizedProfit,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
