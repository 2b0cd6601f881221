package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

const tradeColumns = `trade_id, session, position_id, instrument, direction, stake, entry_price, exit_price, price_change, profit, open_time, close_time, reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Session,
		&rec.PositionID,
		&rec.Instrument,
		&rec.Direction,
		&rec.Stake,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.PriceChange,
		&rec.Profit,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.Reason,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC, position_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesBySession returns a session's trades in position order.
func (j *SQLite) ListTradesBySession(session string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE session = ?
		ORDER BY position_id ASC`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBalanceBetween returns balance snapshots with time in [start, end).
func (j *SQLite) ListBalanceBetween(start, end time.Time) ([]BalanceSnapshot, error) {
	return j.queryBalance(`
		SELECT time, session, event, balance, active_investment, realized_profit
		FROM balance
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, rowid ASC`, start.UTC(), end.UTC())
}

// ListBalanceBySession returns a session's balance snapshots in the
// order they were written.
func (j *SQLite) ListBalanceBySession(session string) ([]BalanceSnapshot, error) {
	return j.queryBalance(`
		SELECT time, session, event, balance, active_investment, realized_profit
		FROM balance
		WHERE session = ?
		ORDER BY rowid ASC`, session)
}

func (j *SQLite) queryBalance(query string, args ...any) ([]BalanceSnapshot, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceSnapshot
	for rows.Next() {
		var b BalanceSnapshot
		if err := rows.Scan(
			&b.Time,
			&b.Session,
			&b.Event,
			&b.Balance,
			&b.ActiveInvestment,
			&b.RealizedProfit,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
