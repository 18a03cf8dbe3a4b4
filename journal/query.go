package journal

import (
	"database/sql"
	"fmt"
)

// GetOrder returns a single order record by ID.
func (j *SQLite) GetOrder(orderID string) (OrderRecord, error) {
	var rec OrderRecord

	row := j.db.QueryRow(`
		SELECT order_id, episode_id, date, side, code, cash_delta, price, volume
		FROM orders
		WHERE order_id = ?`, orderID)

	err := row.Scan(
		&rec.OrderID,
		&rec.EpisodeID,
		&rec.Date,
		&rec.Side,
		&rec.Code,
		&rec.CashDelta,
		&rec.Price,
		&rec.Volume,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderRecord{}, fmt.Errorf("order %q not found", orderID)
		}
		return OrderRecord{}, err
	}
	return rec, nil
}

// ListOrdersByEpisode returns an episode's orders in date order.
func (j *SQLite) ListOrdersByEpisode(episodeID string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, episode_id, date, side, code, cash_delta, price, volume
		FROM orders
		WHERE episode_id = ?
		ORDER BY date ASC, order_id ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.EpisodeID,
			&rec.Date,
			&rec.Side,
			&rec.Code,
			&rec.CashDelta,
			&rec.Price,
			&rec.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListOrdersByDateRange returns an episode's orders between start and end
// inclusive, in date order.
func (j *SQLite) ListOrdersByDateRange(episodeID, start, end string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, episode_id, date, side, code, cash_delta, price, volume
		FROM orders
		WHERE episode_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, order_id ASC`, episodeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.EpisodeID,
			&rec.Date,
			&rec.Side,
			&rec.Code,
			&rec.CashDelta,
			&rec.Price,
			&rec.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquityByEpisode returns an episode's daily equity curve in date order.
func (j *SQLite) ListEquityByEpisode(episodeID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT episode_id, date, cash, market_value, portfolio_value, daily_pnl, total_pnl
		FROM equity
		WHERE episode_id = ?
		ORDER BY date ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(
			&e.EpisodeID,
			&e.Date,
			&e.Cash,
			&e.MarketValue,
			&e.PortfolioValue,
			&e.DailyPnl,
			&e.TotalPnl,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEpisodes returns the distinct episode IDs present in the journal.
func (j *SQLite) ListEpisodes() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT episode_id FROM equity ORDER BY episode_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
