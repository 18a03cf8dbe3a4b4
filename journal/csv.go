package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

type CSV struct {
	orders *csv.Writer
	equity *csv.Writer
	of, ef *os.File
}

func NewCSV(ordersPath, equityPath string) (*CSV, error) {
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		of.Close()
		return nil, err
	}

	ow := csv.NewWriter(of)
	ew := csv.NewWriter(ef)

	if err := ow.Write([]string{"order_id", "episode_id", "date", "side", "code", "cash_delta", "price", "volume"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"episode_id", "date", "cash", "market_value", "portfolio_value", "daily_pnl", "total_pnl"}); err != nil {
		return nil, err
	}

	ow.Flush()
	if err := ow.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSV{orders: ow, equity: ew, of: of, ef: ef}, nil
}

func (j *CSV) RecordOrder(o OrderRecord) error {
	if err := j.orders.Write([]string{
		o.OrderID,
		o.EpisodeID,
		o.Date,
		o.Side,
		o.Code,
		f(o.CashDelta),
		f(o.Price),
		strconv.FormatInt(o.Volume, 10),
	}); err != nil {
		return err
	}
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	if err := j.equity.Write([]string{
		e.EpisodeID,
		e.Date,
		f(e.Cash),
		f(e.MarketValue),
		f(e.PortfolioValue),
		f(e.DailyPnl),
		f(e.TotalPnl),
	}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.of.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
