package models

import (
	"errors"
	"testing"
)

const testAsOf = 2021

func TestYearRangeValidate(t *testing.T) {
	gdp := YearBounds{Min: 1960, Max: testAsOf - 1}

	tests := []struct {
		name    string
		r       YearRange
		bounds  YearBounds
		wantErr error
	}{
		{name: "unbounded", r: YearRange{}, bounds: gdp},
		{name: "valid pair", r: YearRange{Min: 1975, Max: 1975}, bounds: gdp},
		{name: "min only", r: YearRange{Min: 1960}, bounds: gdp},
		{name: "max at last completed year", r: YearRange{Max: 2020}, bounds: gdp},
		{name: "min below possible", r: YearRange{Min: 1910}, bounds: gdp, wantErr: ErrInvalidMinYear},
		{name: "min after reference year", r: YearRange{Min: 2030}, bounds: YearBounds{}, wantErr: ErrInvalidMinYear},
		{name: "max beyond last completed year", r: YearRange{Max: 3000}, bounds: gdp, wantErr: ErrInvalidMaxYear},
		{name: "max defaults to reference year", r: YearRange{Max: 2021}, bounds: YearBounds{}},
		{name: "max beyond reference year", r: YearRange{Max: 2022}, bounds: YearBounds{}, wantErr: ErrInvalidMaxYear},
		{name: "inverted", r: YearRange{Min: 2000, Max: 1980}, bounds: gdp, wantErr: ErrInvalidYearOrder},
		{name: "inverted and both out of bounds", r: YearRange{Min: 3000, Max: 1900}, bounds: gdp, wantErr: ErrInvalidYearOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate(tt.bounds, testAsOf)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestYearRangeValidateOrderProperty(t *testing.T) {
	for lo := 1900; lo < 2100; lo += 7 {
		for hi := lo - 50; hi < lo; hi += 11 {
			err := YearRange{Min: lo, Max: hi}.Validate(YearBounds{Min: 1960}, testAsOf)
			if !errors.Is(err, ErrInvalidYearOrder) {
				t.Fatalf("Validate(%d, %d) error = %v, want ErrInvalidYearOrder", lo, hi, err)
			}
		}
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{
			name:  "valid event",
			event: Event{Name: "Spanish Flu", Type: "Pandemics", Range: "Global", StartYear: 1918, EndYear: 1920},
		},
		{
			name:  "single year event",
			event: Event{Name: "Flash Crash", Type: "Financial", Range: "US", StartYear: 2010, EndYear: 2010},
		},
		{
			name:    "empty name",
			event:   Event{Type: "War", Range: "Global", StartYear: 1939, EndYear: 1945},
			wantErr: true,
		},
		{
			name:    "end before start",
			event:   Event{Name: "Backwards", Type: "War", Range: "Global", StartYear: 1945, EndYear: 1939},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Event.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventDuration(t *testing.T) {
	e := Event{StartYear: 1939, EndYear: 1945}
	if got := e.Duration(); got != 6 {
		t.Errorf("Duration() = %d, want 6", got)
	}
}

func TestParseAnchorRule(t *testing.T) {
	for _, rule := range []AnchorRule{AnchorStartYear, AnchorEndYear, AnchorYearBeforeEndYear, AnchorYearAfterStartYear} {
		got, err := ParseAnchorRule(rule.String())
		if err != nil {
			t.Fatalf("ParseAnchorRule(%q) error: %v", rule.String(), err)
		}
		if got != rule {
			t.Errorf("ParseAnchorRule(%q) = %v, want %v", rule.String(), got, rule)
		}
	}

	if _, err := ParseAnchorRule("midpoint"); !errors.Is(err, ErrInvalidAnchorRule) {
		t.Errorf("ParseAnchorRule(midpoint) error = %v, want ErrInvalidAnchorRule", err)
	}
}

func TestCategoryErrorIs(t *testing.T) {
	err := error(&CategoryError{Field: "type", Unknown: []string{"Historical Events"}, Valid: []string{"Pandemics", "War"}})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatal("CategoryError should match ErrUnknownCategory")
	}
	want := "invalid type(s): Historical Events. Valid values: Pandemics, War"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestYearSeriesSlice(t *testing.T) {
	s := YearSeries{Name: "USA", Years: []int{2000, 2001, 2002, 2003}, Values: []Value{Some(1), {}, Some(3), Some(4)}}
	got := s.Slice(2001, 2002)
	if got.Len() != 2 || got.FirstYear() != 2001 || got.LastYear() != 2002 {
		t.Fatalf("Slice() = %+v", got)
	}
	if got.Values[0].Valid {
		t.Error("missing value should stay missing after slicing")
	}
	if s.Len() != 4 {
		t.Error("Slice must not modify the source series")
	}
}

func TestDropReportNilSafe(t *testing.T) {
	var r *DropReport
	r.Add(DropUnmatchedCode, "XXX", "not in table")
	if r.Len() != 0 {
		t.Error("nil report should record nothing")
	}

	r = NewDropReport()
	if r.ID == "" {
		t.Error("report should carry an ID")
	}
	r.Add(DropOutOfCoverage, "Spanish Flu", "window %d-%d", 1916, 1920)
	if r.Len() != 1 || r.Items[0].Reason != "window 1916-1920" {
		t.Errorf("unexpected report items: %+v", r.Items)
	}
}
