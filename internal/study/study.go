// Package study runs the event-window pipeline end to end: it loads the
// configured sources, narrows them, aligns market series around event
// windows, and hands the resulting tables to the export writer.
//
// A Study holds no state between calls beyond its configuration; every
// method loads what it needs and returns fresh tables.
package study

import (
	"fmt"
	"strings"
	"time"

	"github.com/rewired-gh/eventwindow/internal/anchor"
	"github.com/rewired-gh/eventwindow/internal/catalog"
	"github.com/rewired-gh/eventwindow/internal/compare"
	"github.com/rewired-gh/eventwindow/internal/config"
	"github.com/rewired-gh/eventwindow/internal/export"
	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
	"github.com/rewired-gh/eventwindow/internal/widetable"
)

// Result is one named output of a study step.
type Result struct {
	Name   string
	Sheets []export.Sheet
	Report *models.DropReport
}

// Study runs pipeline steps against a configuration.
type Study struct {
	cfg    *config.Config
	asOf   int
	writer *export.Writer
}

// New creates a Study. asOf is the reference year for all bound checks.
func New(cfg *config.Config, asOf int) *Study {
	return &Study{
		cfg:    cfg,
		asOf:   asOf,
		writer: export.New(cfg.Output.Dir, 0, 0),
	}
}

// GDP loads the GDP wide table narrowed to years and countries.
func (s *Study) GDP(years models.YearRange, countries []string) (*Result, error) {
	report := models.NewDropReport()
	tbl, err := widetable.Load(s.cfg.Data.GDPFile, widetable.Options{
		Filter: widetable.Filter{Years: years, Countries: countries, Report: report},
		Bounds: widetable.GDPBounds(s.cfg.GDP.MinPossibleYear, s.asOf),
		AsOf:   s.asOf,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("GDP table: %d countries, %d years", len(tbl.Rows), len(tbl.Years))
	return &Result{
		Name:   "gdp",
		Sheets: []export.Sheet{export.WideTableSheet("gdp", tbl)},
		Report: report,
	}, nil
}

// CPI loads yearly CPI means inside years.
func (s *Study) CPI(years models.YearRange) (*Result, error) {
	series, err := widetable.LoadCPI(s.cfg.Data.CPIFile, years, s.asOf)
	if err != nil {
		return nil, err
	}
	logger.Info("CPI: %d years (%d-%d)", series.Len(), series.FirstYear(), series.LastYear())
	return &Result{Name: "cpi", Sheets: []export.Sheet{export.SeriesSheet("cpi", series)}}, nil
}

// Events loads the filtered catalog with windows attached.
func (s *Study) Events(f catalog.Filter) (*Result, error) {
	windowed, err := s.windowedEvents(f)
	if err != nil {
		return nil, err
	}
	logger.Info("Events: %d selected", len(windowed))
	return &Result{Name: "events", Sheets: []export.Sheet{export.EventsSheet("events", windowed)}}, nil
}

// Compare builds one comparison table per (event type, value kind). Types
// default to every type among the selected events.
func (s *Study) Compare(f catalog.Filter, kinds []compare.ValueKind) ([]*Result, error) {
	if len(s.cfg.Data.Markets) != 2 {
		return nil, fmt.Errorf("comparison needs exactly two data.markets, got %d", len(s.cfg.Data.Markets))
	}
	if len(kinds) == 0 {
		kinds = []compare.ValueKind{s.cfg.ValueKind()}
	}

	windowed, err := s.windowedEvents(f)
	if err != nil {
		return nil, err
	}

	a, b := s.cfg.Data.Markets[0], s.cfg.Data.Markets[1]
	panel, err := compare.LoadPanel(a.Name, a.File, b.Name, b.File)
	if err != nil {
		return nil, err
	}

	types := f.Types
	if len(types) == 0 {
		events := make([]models.Event, len(windowed))
		for i, w := range windowed {
			events[i] = w.Event
		}
		types = catalog.Types(events)
	}

	var results []*Result
	for _, typ := range types {
		var group []models.WindowedEvent
		for _, w := range windowed {
			if w.Type == typ {
				group = append(group, w)
			}
		}
		for _, kind := range kinds {
			report := models.NewDropReport()
			tbl, err := compare.Extract(group, panel, kind, s.cfg.MarketCoverage(), report)
			if err != nil {
				return nil, err
			}
			name := slug(typ) + "_" + kind.String()
			logger.Info("Comparison %s: %d of %d events, %d rows", name, len(tbl.Events()), len(group), tbl.Len())
			offsets := tbl.AnchoredOffsets(s.cfg.Window.Length, s.cfg.Frequency())
			results = append(results, &Result{
				Name: name,
				Sheets: []export.Sheet{
					export.ComparisonSheet(name, tbl, offsets),
					export.EventsSheet("events", group),
				},
				Report: report,
			})
		}
	}
	return results, nil
}

// GDPWindows cuts a padded GDP level view around each selected event. An
// empty code uses the aggregate GDP-by-year table; otherwise the country's
// row of the GDP table.
func (s *Study) GDPWindows(code string, f catalog.Filter) (*Result, error) {
	var series models.YearSeries
	if code == "" {
		var err error
		series, err = widetable.LoadYearRow(s.cfg.Data.GDPAggregateFile)
		if err != nil {
			return nil, err
		}
	} else {
		tbl, err := widetable.Load(s.cfg.Data.GDPFile, widetable.Options{
			Filter: widetable.Filter{Countries: []string{code}},
			AsOf:   s.asOf,
		})
		if err != nil {
			return nil, err
		}
		var ok bool
		series, ok = tbl.Series(code)
		if !ok {
			return nil, fmt.Errorf("country code %s not found in %s", code, s.cfg.Data.GDPFile)
		}
	}

	events, err := catalog.LoadEvents(s.cfg.Data.EventsFile, f, s.asOf)
	if err != nil {
		return nil, err
	}

	cov := compare.CoverageOf(series)
	if s.cfg.GDPWindow.FirstYear != 0 {
		cov.FirstYear = s.cfg.GDPWindow.FirstYear
	}
	if s.cfg.GDPWindow.LastYear != 0 {
		cov.LastYear = s.cfg.GDPWindow.LastYear
	}

	report := models.NewDropReport()
	windows := compare.GDPWindows(series, events, s.cfg.GDPWindow.Padding, cov, report)
	logger.Info("GDP windows for %s: %d of %d events", series.Name, len(windows), len(events))

	name := "gdp_window_" + slug(series.Name)
	sheets := make([]export.Sheet, 0, len(windows))
	for _, w := range windows {
		sheets = append(sheets, export.SeriesSheet(w.Name, w))
	}
	return &Result{Name: name, Sheets: sheets, Report: report}, nil
}

// Write writes r in the configured format, plus its drop report when
// anything was dropped. A result whose every item was dropped still gets
// its report, written alone as <name>_dropped.
func (s *Study) Write(r *Result) ([]string, error) {
	name, sheets := r.Name, r.Sheets
	if r.Report.Len() > 0 {
		if len(sheets) == 0 {
			logger.Warn("Everything in %s was dropped; writing the drop report only", r.Name)
			name += "_dropped"
		}
		sheets = append(sheets[:len(sheets):len(sheets)], export.DropReportSheet("dropped", r.Report))
	}
	if len(sheets) == 0 {
		logger.Warn("Nothing to write for %s", r.Name)
		return nil, nil
	}
	start := time.Now()
	paths, err := s.writer.Write(s.cfg.Output.Format, name, sheets...)
	if err != nil {
		return paths, fmt.Errorf("failed to write %s: %w", r.Name, err)
	}
	logger.Debug("Wrote %s in %v", r.Name, time.Since(start))
	return paths, nil
}

// LogDrops logs every dropped item of r at warn level.
func LogDrops(r *Result) {
	if r.Report == nil {
		return
	}
	for _, it := range r.Report.Items {
		logger.Warn("%s: dropped %s (%s): %s", r.Name, it.Key, it.Kind, it.Reason)
	}
}

func (s *Study) windowedEvents(f catalog.Filter) ([]models.WindowedEvent, error) {
	events, err := catalog.LoadEvents(s.cfg.Data.EventsFile, f, s.asOf)
	if err != nil {
		return nil, err
	}
	return anchor.AddTimeRange(events, s.cfg.AnchorRule(), s.cfg.Window.Length, s.cfg.UpperBound())
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
