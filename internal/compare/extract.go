// Package compare aligns market and economic series around event windows.
//
// Extract slices a two-index market panel to each event's window and turns
// the slices into period-over-period percent changes, one column per event
// and index. GDPWindow cuts a padded level view of a yearly series around
// a single event.
//
// Events whose window leaves the series' coverage are skipped, never
// reported as errors; pass a *models.DropReport to see which.
package compare

import (
	"fmt"

	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// Frequency is the sampling step of a series.
type Frequency int

const (
	Monthly Frequency = iota
	Yearly
)

// PeriodsPerYear returns how many rows one year spans.
func (f Frequency) PeriodsPerYear() int {
	if f == Monthly {
		return 12
	}
	return 1
}

// ParseFrequency maps "monthly" or "yearly" onto a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	}
	return 0, fmt.Errorf("invalid frequency %q: must be monthly or yearly", s)
}

// Coverage is the inclusive year span a series has valid data for.
// A zero bound is open.
type Coverage struct {
	FirstYear int
	LastYear  int
}

// ContainsWindow reports whether w lies fully inside c.
func (c Coverage) ContainsWindow(w models.AnchorWindow) bool {
	if c.FirstYear != 0 && w.YStart < c.FirstYear {
		return false
	}
	if c.LastYear != 0 && w.YEnd > c.LastYear {
		return false
	}
	return true
}

// Column is one derived sub-series of one event.
type Column struct {
	Name   string // "<event>_<index>"
	Event  string
	Series string
	Values []models.Value
}

// Table is the multi-event comparison. Row i of every column is the same
// relative step inside its event's window.
type Table struct {
	Kind    ValueKind
	Columns []Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	n := 0
	for _, c := range t.Columns {
		n = max(n, len(c.Values))
	}
	return n
}

// Events returns the distinct event names in column order.
func (t *Table) Events() []string {
	var out []string
	for i, c := range t.Columns {
		if i == 0 || t.Columns[i-1].Event != c.Event {
			out = append(out, c.Event)
		}
	}
	return out
}

// AnchoredOffsets returns the row labels that put 0 at the anchor point:
// row i is labelled i - length*periodsPerYear. Values are untouched.
func (t *Table) AnchoredOffsets(length int, freq Frequency) []int {
	shift := length * freq.PeriodsPerYear()
	offsets := make([]int, t.Len())
	for i := range offsets {
		offsets[i] = i - shift
	}
	return offsets
}

// Extract builds the comparison table for events over panel. Events whose
// window is not inside cov are skipped. The first row, undefined for a
// percent change, is dropped once after all columns are assembled.
func Extract(events []models.WindowedEvent, panel *Panel, kind ValueKind, cov Coverage, report *models.DropReport) (*Table, error) {
	if kind != Nominal && kind != Real {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidValueKind, kind)
	}

	t := &Table{Kind: kind}
	for _, e := range events {
		if !cov.ContainsWindow(e.Window) {
			report.Add(models.DropOutOfCoverage, e.Name, "window %d-%d outside coverage %d-%d",
				e.Window.YStart, e.Window.YEnd, cov.FirstYear, cov.LastYear)
			continue
		}

		var levels [2][]models.Value
		for _, row := range panel.Rows {
			if !e.Window.Contains(row.Year) {
				continue
			}
			for k := range levels {
				levels[k] = append(levels[k], row.Quotes[k].Get(kind))
			}
		}
		for k, name := range panel.Names {
			t.Columns = append(t.Columns, Column{
				Name:   e.Name + "_" + name,
				Event:  e.Name,
				Series: name,
				Values: PercentChange(levels[k]),
			})
		}
	}

	n := t.Len()
	for i := range t.Columns {
		padded := make([]models.Value, n)
		copy(padded, t.Columns[i].Values)
		if n > 0 {
			padded = padded[1:]
		}
		t.Columns[i].Values = padded
	}
	logger.Debug("Extracted %d %s columns of %d rows for %d events", len(t.Columns), kind, t.Len(), len(events))
	return t, nil
}

// PercentChange returns the period-over-period change of values as a
// fraction. The first element, and any element whose predecessor is
// missing or zero, is missing.
func PercentChange(values []models.Value) []models.Value {
	out := make([]models.Value, len(values))
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if !prev.Valid || !cur.Valid || prev.Amount == 0 {
			continue
		}
		out[i] = models.Some((cur.Amount - prev.Amount) / prev.Amount)
	}
	return out
}
