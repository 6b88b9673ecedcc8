package models

import "fmt"

// AnchorRule selects how an event's anchor year is derived.
type AnchorRule int

const (
	AnchorStartYear AnchorRule = iota
	AnchorEndYear
	AnchorYearBeforeEndYear
	AnchorYearAfterStartYear
)

var anchorRuleNames = [...]string{
	AnchorStartYear:          "start_year",
	AnchorEndYear:            "end_year",
	AnchorYearBeforeEndYear:  "year_before_end_year",
	AnchorYearAfterStartYear: "year_after_start_year",
}

func (r AnchorRule) String() string {
	if r < 0 || int(r) >= len(anchorRuleNames) {
		return fmt.Sprintf("AnchorRule(%d)", int(r))
	}
	return anchorRuleNames[r]
}

// ParseAnchorRule maps a configuration string onto an AnchorRule.
func ParseAnchorRule(s string) (AnchorRule, error) {
	for i, name := range anchorRuleNames {
		if name == s {
			return AnchorRule(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAnchorRule, s)
}

// UpperBound selects the width convention of a window's upper edge.
// Two conventions exist in the event-study history: y0+length (inclusive)
// and y0+length-1 (exclusive). The pipeline holds one per run.
type UpperBound int

const (
	UpperInclusive UpperBound = iota
	UpperExclusive
)

func (b UpperBound) String() string {
	switch b {
	case UpperInclusive:
		return "inclusive"
	case UpperExclusive:
		return "exclusive"
	}
	return fmt.Sprintf("UpperBound(%d)", int(b))
}

// ParseUpperBound maps "inclusive" or "exclusive" onto an UpperBound.
func ParseUpperBound(s string) (UpperBound, error) {
	switch s {
	case "inclusive":
		return UpperInclusive, nil
	case "exclusive":
		return UpperExclusive, nil
	}
	return 0, fmt.Errorf("invalid upper bound %q: must be inclusive or exclusive", s)
}

// AnchorWindow is the inclusive [YStart, YEnd] study window of one event.
type AnchorWindow struct {
	EventName string `json:"event_name"`
	Anchor    int    `json:"anchor"`
	YStart    int    `json:"y_start"`
	YEnd      int    `json:"y_end"`
}

// Contains reports whether year falls inside the window.
func (w AnchorWindow) Contains(year int) bool {
	return year >= w.YStart && year <= w.YEnd
}

// WindowedEvent pairs an event with the window computed for it.
type WindowedEvent struct {
	Event
	Window AnchorWindow
}
