package market

import "sort"

// Calendar is the ordered union of every instrument's trading dates.
// A multi-asset episode walks this calendar; individual instruments may be
// suspended on any given calendar date.
type Calendar struct {
	dates []string
	index map[string]int
}

// NewCalendar merges the trading dates of all histories.
func NewCalendar(histories map[string]*History) *Calendar {
	seen := map[string]struct{}{}
	for _, h := range histories {
		for _, d := range h.Dates() {
			seen[d] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	index := make(map[string]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}
	return &Calendar{dates: dates, index: index}
}

func (c *Calendar) Len() int { return len(c.dates) }
func (c *Calendar) At(i int) string { return c.dates[i] }
func (c *Calendar) Dates() []string { return c.dates }

// Index returns the position of an exact date, or (0, false).
func (c *Calendar) Index(date string) (int, bool) {
	i, ok := c.index[date]
	return i, ok
}

// Last returns the final open trading date, or "" for an empty calendar.
func (c *Calendar) Last() string {
	if len(c.dates) == 0 {
		return ""
	}
	return c.dates[len(c.dates)-1]
}
