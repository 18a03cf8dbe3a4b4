// Package data loads per-instrument daily bar caches from disk.
//
// The cache layout is one directory per instrument code containing a CSV
// named <start>-<end>.csv; a .csv.xz sibling is read transparently so bulk
// history archives can stay compressed. Acquisition from a remote provider
// is out of scope here: whatever writes the cache owns that concern.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz"

	"github.com/quantlab/stockgym/market"
)

// Header is the canonical cache column order.
var Header = []string{"trade_date", "open", "high", "low", "close", "pre_close", "pct_chg", "adj_factor", "vol"}

type Loader struct {
	Dir   string
	Start string // YYYYMMDD, inclusive
	End   string // YYYYMMDD, inclusive
}

// Load reads the cache for every code and returns the assembled dataset.
func (l *Loader) Load(codes []string) (*market.Dataset, error) {
	histories := make(map[string]*market.History, len(codes))
	for _, code := range codes {
		bars, err := l.readCode(code)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", code, err)
		}
		h, err := market.NewHistory(code, bars)
		if err != nil {
			return nil, err
		}
		histories[code] = h
	}
	return market.NewDataset(histories), nil
}

func (l *Loader) cachePath(code string) string {
	return filepath.Join(l.Dir, code, l.Start+"-"+l.End+".csv")
}

// readCode opens the plain CSV if present, then falls back to the .xz
// variant.
func (l *Loader) readCode(code string) ([]market.Bar, error) {
	path := l.cachePath(code)
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		return parseBars(f, path)
	}

	xzPath := path + ".xz"
	f, err := os.Open(xzPath)
	if err != nil {
		return nil, fmt.Errorf("no cache at %s or %s", path, xzPath)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open xz %s: %w", xzPath, err)
	}
	return parseBars(r, xzPath)
}

// parseBars reads cache rows, skipping a header row and counting bad or
// duplicate lines instead of failing the whole load.
func parseBars(r io.Reader, name string) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []market.Bar
	var badLines, duplicates int
	seen := map[string]struct{}{}
	sawFirst := false

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), Header[0]) {
				continue
			}
		}

		b, ok := parseBarRow(row)
		if !ok {
			badLines++
			continue
		}
		if _, dup := seen[b.Date]; dup {
			// keep-first policy
			duplicates++
			continue
		}
		seen[b.Date] = struct{}{}
		bars = append(bars, b)
	}

	if badLines > 0 || duplicates > 0 {
		log.Warn().Str("file", name).Int("bad_lines", badLines).Int("duplicates", duplicates).
			Msg("cache ingest warnings")
	}
	return bars, nil
}

func parseBarRow(row []string) (market.Bar, bool) {
	if len(row) < len(Header) {
		return market.Bar{}, false
	}
	date := strings.TrimSpace(row[0])
	if len(date) != 8 {
		return market.Bar{}, false
	}

	vals := make([]float64, len(Header)-1)
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, false
		}
		vals[i] = v
	}
	return market.Bar{
		Date:      date,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		PreClose:  vals[4],
		PctChange: vals[5],
		AdjFactor: vals[6],
		Volume:    vals[7],
	}, true
}

// Write stores bars as the cache CSV for code, creating the directory if
// needed. Bars are written in the order given.
func (l *Loader) Write(code string, bars []market.Bar) error {
	dir := filepath.Join(l.Dir, code)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(l.cachePath(code))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, b := range bars {
		row := []string{
			b.Date,
			fmtFloat(b.Open), fmtFloat(b.High), fmtFloat(b.Low), fmtFloat(b.Close),
			fmtFloat(b.PreClose), fmtFloat(b.PctChange), fmtFloat(b.AdjFactor), fmtFloat(b.Volume),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Compress rewrites a plain cache CSV as .csv.xz and removes the original.
func (l *Loader) Compress(code string) error {
	path := l.cachePath(code)
	in, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path + ".xz")
	if err != nil {
		return err
	}
	xw, err := xz.NewWriter(out)
	if err != nil {
		out.Close()
		return err
	}
	if _, err := xw.Write(in); err != nil {
		xw.Close()
		out.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
