// journal/schema.go
package journal

// Amounts are stored as TEXT so decimals survive the round trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	session TEXT NOT NULL,
	position_id INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	stake TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	price_change TEXT NOT NULL,
	profit TEXT NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);

CREATE TABLE IF NOT EXISTS balance (
	time DATETIME NOT NULL,
	session TEXT NOT NULL,
	event TEXT NOT NULL,
	balance TEXT NOT NULL,
	active_investment TEXT NOT NULL,
	realized_profit TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balance_time ON balance(time);
`
