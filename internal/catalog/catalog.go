// Package catalog loads the historical event table (pandemics, wars, ...)
// and filters it by type, geographic range, and start/end year.
//
// Type and range behave like an enum discovered from the data: the legal
// values are whatever the loaded catalog contains, in first-seen order.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// Event table columns.
const (
	NameColumn       = "Event_Name"
	TypeColumn       = "Type"
	RangeColumn      = "Range"
	StartYearColumn  = "Start_Year"
	EndYearColumn    = "End_Year"
	FatalitiesColumn = "Fatalities"
)

var requiredColumns = []string{NameColumn, TypeColumn, RangeColumn, StartYearColumn, EndYearColumn, FatalitiesColumn}

// Catalog is a loaded event table. Events keep source row order.
type Catalog struct {
	Events     []models.Event
	Types      []string // first-seen order
	Ranges     []string // first-seen order
	Fatalities []string // bucket labels, ascending
}

// Filter selects events. Zero fields do not constrain.
type Filter struct {
	Types      []string
	Ranges     []string
	StartYears models.YearRange
	EndYears   models.YearRange
}

// Validate checks the start and end year bounds against the reference year.
func (f Filter) Validate(asOf int) error {
	if err := f.StartYears.Validate(models.YearBounds{}, asOf); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidStartYearRange, err)
	}
	if err := f.EndYears.Validate(models.YearBounds{}, asOf); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidEndYearRange, err)
	}
	return nil
}

// LoadEvents validates f, loads the catalog at path, and returns the
// matching events in source order.
func LoadEvents(path string, f Filter, asOf int) ([]models.Event, error) {
	if err := f.Validate(asOf); err != nil {
		return nil, err
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.Filter(f, asOf)
}

// Load reads the event catalog at path. A missing file is returned as the
// unwrapped error from os.Open.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Loaded %d events from %s (types: %v, ranges: %v)", len(c.Events), path, c.Types, c.Ranges)
	return c, nil
}

// LoadFromReader reads an event catalog. Only the required columns are used.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingColumn, col)
		}
	}

	c := &Catalog{}
	seenNames := make(map[string]bool)
	seenTypes := make(map[string]bool)
	seenRanges := make(map[string]bool)
	var labels []string
	seenLabels := make(map[string]bool)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		get := func(col string) string { return strings.TrimSpace(record[idx[col]]) }
		start, err := strconv.Atoi(get(StartYearColumn))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", line, StartYearColumn, get(StartYearColumn))
		}
		end, err := strconv.Atoi(get(EndYearColumn))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", line, EndYearColumn, get(EndYearColumn))
		}

		e := models.Event{
			Name:       get(NameColumn),
			Type:       get(TypeColumn),
			Range:      get(RangeColumn),
			StartYear:  start,
			EndYear:    end,
			Fatalities: get(FatalitiesColumn),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seenNames[e.Name] {
			return nil, fmt.Errorf("line %d: duplicate event name %q", line, e.Name)
		}
		seenNames[e.Name] = true

		if !seenTypes[e.Type] {
			seenTypes[e.Type] = true
			c.Types = append(c.Types, e.Type)
		}
		if !seenRanges[e.Range] {
			seenRanges[e.Range] = true
			c.Ranges = append(c.Ranges, e.Range)
		}
		if e.Fatalities != "" && !seenLabels[e.Fatalities] {
			seenLabels[e.Fatalities] = true
			labels = append(labels, e.Fatalities)
		}
		c.Events = append(c.Events, e)
	}
	c.Fatalities = OrderBuckets(labels)
	return c, nil
}

// Filter returns the events matching f, in catalog order. Type or range
// values absent from the catalog fail with a *models.CategoryError. When
// only one side of a year range is given, the other defaults to the
// catalog's observed extreme.
func (c *Catalog) Filter(f Filter, asOf int) ([]models.Event, error) {
	if err := f.Validate(asOf); err != nil {
		return nil, err
	}
	if err := checkCategory("type", f.Types, c.Types); err != nil {
		return nil, err
	}
	if err := checkCategory("range", f.Ranges, c.Ranges); err != nil {
		return nil, err
	}

	types := toSet(f.Types)
	ranges := toSet(f.Ranges)
	startRange := c.fillRange(f.StartYears, func(e models.Event) int { return e.StartYear })
	endRange := c.fillRange(f.EndYears, func(e models.Event) int { return e.EndYear })

	out := make([]models.Event, 0, len(c.Events))
	for _, e := range c.Events {
		if types != nil && !types[e.Type] {
			continue
		}
		if ranges != nil && !ranges[e.Range] {
			continue
		}
		if !startRange.Contains(e.StartYear) || !endRange.Contains(e.EndYear) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// fillRange completes a half-open range with the catalog's observed extreme.
func (c *Catalog) fillRange(r models.YearRange, year func(models.Event) int) models.YearRange {
	if r.IsZero() || len(c.Events) == 0 {
		return r
	}
	lo, hi := year(c.Events[0]), year(c.Events[0])
	for _, e := range c.Events[1:] {
		lo = min(lo, year(e))
		hi = max(hi, year(e))
	}
	if !r.HasMin() {
		r.Min = lo
	}
	if !r.HasMax() {
		r.Max = hi
	}
	return r
}

// Types returns the distinct event types of events, in first-seen order.
func Types(events []models.Event) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range events {
		if !seen[e.Type] {
			seen[e.Type] = true
			out = append(out, e.Type)
		}
	}
	return out
}

func checkCategory(field string, requested, valid []string) error {
	known := toSet(valid)
	var unknown []string
	for _, v := range requested {
		if !known[v] {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		return &models.CategoryError{Field: field, Unknown: unknown, Valid: append([]string(nil), valid...)}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
