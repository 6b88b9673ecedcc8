package compare

import "github.com/rewired-gh/eventwindow/internal/models"

// DefaultPadding is the number of years GDPWindow shows on either side of an event.
const DefaultPadding = 10

// CoverageOf returns the year span of s.
func CoverageOf(s models.YearSeries) Coverage {
	return Coverage{FirstYear: s.FirstYear(), LastYear: s.LastYear()}
}

// GDPWindow returns the level values of s from e.StartYear-padding to
// e.EndYear+padding, clamped to cov. Events starting before cov.FirstYear
// are skipped: ok is false and nothing is clamped.
func GDPWindow(s models.YearSeries, e models.Event, padding int, cov Coverage, report *models.DropReport) (models.YearSeries, bool) {
	if cov.FirstYear != 0 && e.StartYear < cov.FirstYear {
		report.Add(models.DropBeforeCoverage, e.Name, "starts %d, series begins %d", e.StartYear, cov.FirstYear)
		return models.YearSeries{}, false
	}

	before := e.StartYear - padding
	if cov.FirstYear != 0 {
		before = max(before, cov.FirstYear)
	}
	after := e.EndYear + padding
	if cov.LastYear != 0 {
		after = min(after, cov.LastYear)
	}

	out := s.Slice(before, after)
	out.Name = e.Name
	return out, true
}

// GDPWindows applies GDPWindow to each event, keeping those not skipped.
func GDPWindows(s models.YearSeries, events []models.Event, padding int, cov Coverage, report *models.DropReport) []models.YearSeries {
	var out []models.YearSeries
	for _, e := range events {
		if w, ok := GDPWindow(s, e, padding, cov, report); ok {
			out = append(out, w)
		}
	}
	return out
}
