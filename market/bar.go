package market

// Bar is one instrument's daily record: raw OHLC, previous close, percent
// change and the cumulative adjustment factor used to rebase share counts
// across splits and dividends. Bars are immutable once loaded.
type Bar struct {
	Date      string // trading date, YYYYMMDD
	Open      float64
	High      float64
	Low       float64
	Close     float64
	PreClose  float64
	PctChange float64 // percent, e.g. 10.0 for a 10% move
	AdjFactor float64
	Volume    float64
}

// Locked reports whether the session traded at a single price, which on a
// limit-constrained board means the day opened and closed pinned at the cap.
func (b Bar) Locked() bool {
	return b.Low == b.High
}

// Features returns the bar as a flat vector for observation windows.
func (b Bar) Features() []float64 {
	return []float64{b.Open, b.High, b.Low, b.Close, b.PreClose, b.PctChange, b.AdjFactor, b.Volume}
}

// FeatureSize is the length of the vector returned by Features.
const FeatureSize = 8
