// Package anchor derives each event's anchor year and expands it into a
// symmetric study window.
package anchor

import (
	"fmt"

	"github.com/rewired-gh/eventwindow/internal/models"
)

// AnchorYear returns the anchor year of e under rule.
func AnchorYear(e models.Event, rule models.AnchorRule) (int, error) {
	switch rule {
	case models.AnchorStartYear:
		return e.StartYear, nil
	case models.AnchorEndYear:
		return e.EndYear, nil
	case models.AnchorYearBeforeEndYear:
		return e.EndYear - 1, nil
	case models.AnchorYearAfterStartYear:
		return e.StartYear + 1, nil
	}
	return 0, fmt.Errorf("%w: %v", models.ErrInvalidAnchorRule, rule)
}

// Window returns the window of half-width length around anchor.
// UpperInclusive yields [y0-length, y0+length]; UpperExclusive yields
// [y0-length, y0+length-1] and so needs length >= 1.
func Window(anchor, length int, bound models.UpperBound) (start, end int, err error) {
	if length < 0 {
		return 0, 0, fmt.Errorf("%w: %d", models.ErrInvalidWindowLength, length)
	}
	switch bound {
	case models.UpperInclusive:
		return anchor - length, anchor + length, nil
	case models.UpperExclusive:
		if length == 0 {
			return 0, 0, fmt.Errorf("%w: exclusive upper bound needs length >= 1", models.ErrInvalidWindowLength)
		}
		return anchor - length, anchor + length - 1, nil
	}
	return 0, 0, fmt.Errorf("invalid upper bound: %v", bound)
}

// AddTimeRange attaches a window to every event. The input is not modified;
// windows must be recomputed whenever rule, length, or bound change.
func AddTimeRange(events []models.Event, rule models.AnchorRule, length int, bound models.UpperBound) ([]models.WindowedEvent, error) {
	out := make([]models.WindowedEvent, 0, len(events))
	for _, e := range events {
		y0, err := AnchorYear(e, rule)
		if err != nil {
			return nil, err
		}
		start, end, err := Window(y0, length, bound)
		if err != nil {
			return nil, err
		}
		out = append(out, models.WindowedEvent{
			Event:  e,
			Window: models.AnchorWindow{EventName: e.Name, Anchor: y0, YStart: start, YEnd: end},
		})
	}
	return out, nil
}
