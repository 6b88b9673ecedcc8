package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// Market index table columns.
const (
	DateColumn    = "date"
	NominalColumn = "nominal"
	RealColumn    = "real"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05", "2006-01", "2006/01/02"}

// ValueKind selects nominal or inflation-adjusted index values.
type ValueKind int

const (
	Nominal ValueKind = iota
	Real
)

func (k ValueKind) String() string {
	switch k {
	case Nominal:
		return NominalColumn
	case Real:
		return RealColumn
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// ParseValueKind maps "nominal" or "real" onto a ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(s) {
	case NominalColumn:
		return Nominal, nil
	case RealColumn:
		return Real, nil
	}
	return 0, fmt.Errorf("%w: %q", models.ErrInvalidValueKind, s)
}

// Quote is one observation of an index.
type Quote struct {
	Nominal models.Value
	Real    models.Value
}

// Get returns the quote's value of the given kind.
func (q Quote) Get(kind ValueKind) models.Value {
	if kind == Real {
		return q.Real
	}
	return q.Nominal
}

// IndexPoint is one dated row of a market index table.
type IndexPoint struct {
	Date time.Time
	Quote
}

// Index is a single market index, ascending by date.
type Index struct {
	Name   string
	Points []IndexPoint
}

// PanelRow is one date present in both indexes of a Panel.
type PanelRow struct {
	Date   time.Time
	Year   int
	Quotes [2]Quote
}

// Panel is two market indexes joined on date.
type Panel struct {
	Names [2]string
	Rows  []PanelRow
}

// LoadIndex reads a market index table with date, nominal, and real columns.
func LoadIndex(name, path string) (Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return Index{}, err
	}
	defer file.Close()

	idx, err := ReadIndex(name, file)
	if err != nil {
		return Index{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Loaded index %s from %s: %d points", name, path, len(idx.Points))
	return idx, nil
}

// ReadIndex parses a market index table from r.
func ReadIndex(name string, r io.Reader) (Index, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Index{}, err
	}
	dateIdx, nomIdx, realIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case DateColumn:
			dateIdx = i
		case NominalColumn:
			nomIdx = i
		case RealColumn:
			realIdx = i
		}
	}
	if dateIdx < 0 || nomIdx < 0 || realIdx < 0 {
		return Index{}, fmt.Errorf("%w: need %q, %q and %q", models.ErrMissingColumn, DateColumn, NominalColumn, RealColumn)
	}

	idx := Index{Name: name}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Index{}, err
		}
		line++

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return Index{}, fmt.Errorf("line %d: %w", line, err)
		}
		nominal, err := parseValue(record[nomIdx])
		if err != nil {
			return Index{}, fmt.Errorf("line %d: %w", line, err)
		}
		realValue, err := parseValue(record[realIdx])
		if err != nil {
			return Index{}, fmt.Errorf("line %d: %w", line, err)
		}
		idx.Points = append(idx.Points, IndexPoint{Date: date, Quote: Quote{Nominal: nominal, Real: realValue}})
	}
	sort.SliceStable(idx.Points, func(i, j int) bool { return idx.Points[i].Date.Before(idx.Points[j].Date) })
	return idx, nil
}

// Join inner-joins two indexes on date. Rows are ascending by date.
func Join(a, b Index) *Panel {
	byDate := make(map[time.Time]Quote, len(b.Points))
	for _, p := range b.Points {
		byDate[p.Date] = p.Quote
	}
	panel := &Panel{Names: [2]string{a.Name, b.Name}}
	for _, p := range a.Points {
		q, ok := byDate[p.Date]
		if !ok {
			continue
		}
		panel.Rows = append(panel.Rows, PanelRow{Date: p.Date, Year: p.Date.Year(), Quotes: [2]Quote{p.Quote, q}})
	}
	return panel
}

// LoadPanel loads two index tables and joins them on date.
func LoadPanel(nameA, pathA, nameB, pathB string) (*Panel, error) {
	a, err := LoadIndex(nameA, pathA)
	if err != nil {
		return nil, err
	}
	b, err := LoadIndex(nameB, pathB)
	if err != nil {
		return nil, err
	}
	p := Join(a, b)
	logger.Debug("Joined %s and %s: %d common dates", nameA, nameB, len(p.Rows))
	return p, nil
}

// Years returns the first and last year of the panel, or zeros when empty.
func (p *Panel) Years() (first, last int) {
	if len(p.Rows) == 0 {
		return 0, 0
	}
	return p.Rows[0].Year, p.Rows[len(p.Rows)-1].Year
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseValue(s string) (models.Value, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "..", "NA", "NaN", "null":
		return models.Value{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Value{}, fmt.Errorf("invalid value %q", s)
	}
	return models.Some(f), nil
}
