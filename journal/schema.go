package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	episode_id TEXT NOT NULL,
	date TEXT NOT NULL,
	side TEXT NOT NULL,
	code TEXT NOT NULL,
	cash_delta REAL NOT NULL,
	price REAL NOT NULL,
	volume INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_episode ON orders(episode_id, date);

CREATE TABLE IF NOT EXISTS equity (
	episode_id TEXT NOT NULL,
	date TEXT NOT NULL,
	cash REAL NOT NULL,
	market_value REAL NOT NULL,
	portfolio_value REAL NOT NULL,
	daily_pnl REAL NOT NULL,
	total_pnl REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_episode ON equity(episode_id, date);
`
