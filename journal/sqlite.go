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
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, episode_id, date, side, code, cash_delta, price, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.EpisodeID, o.Date, o.Side, o.Code, o.CashDelta, o.Price, o.Volume,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(episode_id, date, cash, market_value, portfolio_value, daily_pnl, total_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EpisodeID, e.Date, e.Cash, e.MarketValue, e.PortfolioValue, e.DailyPnl, e.TotalPnl,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
