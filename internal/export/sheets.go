package export

import (
	"sort"

	"github.com/rewired-gh/eventwindow/internal/compare"
	"github.com/rewired-gh/eventwindow/internal/models"
	"github.com/rewired-gh/eventwindow/internal/widetable"
)

func cell(v models.Value) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Amount
}

// ComparisonSheet renders a comparison table. offsets, if non-nil, label
// the rows (see compare.Table.AnchoredOffsets); otherwise rows count from 0.
func ComparisonSheet(name string, t *compare.Table, offsets []int) Sheet {
	s := Sheet{Name: name, Header: []string{"offset"}}
	for _, c := range t.Columns {
		s.Header = append(s.Header, c.Name)
	}
	for i := 0; i < t.Len(); i++ {
		label := i
		if offsets != nil {
			label = offsets[i]
		}
		row := []interface{}{label}
		for _, c := range t.Columns {
			row = append(row, cell(c.Values[i]))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// WideTableSheet renders a wide table with its identity columns first.
func WideTableSheet(name string, t *widetable.Table) Sheet {
	s := Sheet{Name: name, Header: t.Columns()}
	for _, r := range t.Rows {
		row := []interface{}{r.Name, r.Code}
		for _, v := range r.Values {
			row = append(row, cell(v))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// SeriesSheet renders year series side by side, one column per series,
// over the union of their years.
func SeriesSheet(name string, series ...models.YearSeries) Sheet {
	s := Sheet{Name: name, Header: []string{"year"}}
	yearSet := make(map[int]bool)
	lookup := make([]map[int]models.Value, len(series))
	for i, ys := range series {
		s.Header = append(s.Header, ys.Name)
		lookup[i] = make(map[int]models.Value, ys.Len())
		for j, y := range ys.Years {
			yearSet[y] = true
			lookup[i][y] = ys.Values[j]
		}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		row := []interface{}{y}
		for i := range series {
			row = append(row, cell(lookup[i][y]))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// EventsSheet renders events with their duration and, when present, window.
func EventsSheet(name string, events []models.WindowedEvent) Sheet {
	s := Sheet{
		Name:   name,
		Header: []string{"Event_Name", "Type", "Range", "Start_Year", "End_Year", "Fatalities", "Duration", "y_start", "y_end"},
	}
	for _, e := range events {
		row := []interface{}{e.Name, e.Type, e.Range, e.StartYear, e.EndYear, e.Fatalities, e.Duration(), nil, nil}
		if e.Window.EventName != "" {
			row[7], row[8] = e.Window.YStart, e.Window.YEnd
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// DropReportSheet renders the items of a drop report.
func DropReportSheet(name string, r *models.DropReport) Sheet {
	s := Sheet{Name: name, Header: []string{"report", "kind", "key", "reason"}}
	if r == nil {
		return s
	}
	for _, it := range r.Items {
		s.Rows = append(s.Rows, []interface{}{r.ID, it.Kind, it.Key, it.Reason})
	}
	return s
}
