package anchor

import (
	"errors"
	"testing"

	"github.com/rewired-gh/eventwindow/internal/models"
)

var testEvents = []models.Event{
	{Name: "Spanish Flu", Type: "Pandemics", Range: "Global", StartYear: 1918, EndYear: 1920},
	{Name: "World War II", Type: "War", Range: "Global", StartYear: 1939, EndYear: 1945},
}

func TestAddTimeRange(t *testing.T) {
	tests := []struct {
		name   string
		rule   models.AnchorRule
		length int
		bound  models.UpperBound
		want   [][2]int
	}{
		{name: "start year inclusive", rule: models.AnchorStartYear, length: 2, bound: models.UpperInclusive, want: [][2]int{{1916, 1920}, {1937, 1941}}},
		{name: "start year exclusive", rule: models.AnchorStartYear, length: 2, bound: models.UpperExclusive, want: [][2]int{{1916, 1919}, {1937, 1940}}},
		{name: "end year", rule: models.AnchorEndYear, length: 1, bound: models.UpperInclusive, want: [][2]int{{1919, 1921}, {1944, 1946}}},
		{name: "year before end year", rule: models.AnchorYearBeforeEndYear, length: 3, bound: models.UpperInclusive, want: [][2]int{{1916, 1922}, {1941, 1947}}},
		{name: "year after start year", rule: models.AnchorYearAfterStartYear, length: 1, bound: models.UpperExclusive, want: [][2]int{{1918, 1919}, {1939, 1940}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddTimeRange(testEvents, tt.rule, tt.length, tt.bound)
			if err != nil {
				t.Fatalf("AddTimeRange() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("AddTimeRange() returned %d events, want %d", len(got), len(tt.want))
			}
			for i, w := range got {
				if w.Window.YStart != tt.want[i][0] || w.Window.YEnd != tt.want[i][1] {
					t.Errorf("%s window = [%d, %d], want %v", w.Name, w.Window.YStart, w.Window.YEnd, tt.want[i])
				}
				if w.Window.EventName != w.Name {
					t.Errorf("window event name %q != %q", w.Window.EventName, w.Name)
				}
			}
		})
	}
}

// A zero-length window is the anchor year alone under the inclusive bound
// and is rejected under the exclusive one, where it would end before it starts.
func TestAddTimeRangeZeroLength(t *testing.T) {
	got, err := AddTimeRange(testEvents, models.AnchorYearBeforeEndYear, 0, models.UpperInclusive)
	if err != nil {
		t.Fatalf("AddTimeRange() error: %v", err)
	}
	for _, w := range got {
		want := w.EndYear - 1
		if w.Window.YStart != want || w.Window.YEnd != want {
			t.Errorf("%s window = [%d, %d], want [%d, %d]", w.Name, w.Window.YStart, w.Window.YEnd, want, want)
		}
	}

	if _, err := AddTimeRange(testEvents, models.AnchorYearBeforeEndYear, 0, models.UpperExclusive); !errors.Is(err, models.ErrInvalidWindowLength) {
		t.Errorf("exclusive zero length error = %v, want ErrInvalidWindowLength", err)
	}
}

func TestAddTimeRangeWidth(t *testing.T) {
	for length := 0; length < 6; length++ {
		inc, err := AddTimeRange(testEvents, models.AnchorStartYear, length, models.UpperInclusive)
		if err != nil {
			t.Fatal(err)
		}
		for i := range inc {
			if d := inc[i].Window.YEnd - inc[i].Window.YStart; d != 2*length {
				t.Errorf("inclusive width = %d, want %d", d, 2*length)
			}
		}
		if length == 0 {
			continue
		}
		exc, err := AddTimeRange(testEvents, models.AnchorStartYear, length, models.UpperExclusive)
		if err != nil {
			t.Fatal(err)
		}
		for i := range exc {
			if d := exc[i].Window.YEnd - exc[i].Window.YStart; d != 2*length-1 {
				t.Errorf("exclusive width = %d, want %d", d, 2*length-1)
			}
		}
	}
}

func TestAddTimeRangeErrors(t *testing.T) {
	if _, err := AddTimeRange(testEvents, models.AnchorRule(9), 2, models.UpperInclusive); !errors.Is(err, models.ErrInvalidAnchorRule) {
		t.Errorf("unknown rule error = %v, want ErrInvalidAnchorRule", err)
	}
	if _, err := AddTimeRange(testEvents, models.AnchorStartYear, -1, models.UpperInclusive); !errors.Is(err, models.ErrInvalidWindowLength) {
		t.Errorf("negative length error = %v, want ErrInvalidWindowLength", err)
	}
}

func TestAddTimeRangeLeavesInputUntouched(t *testing.T) {
	events := append([]models.Event(nil), testEvents...)
	got, err := AddTimeRange(events, models.AnchorStartYear, 2, models.UpperInclusive)
	if err != nil {
		t.Fatal(err)
	}
	got[0].Name = "changed"
	if events[0].Name != "Spanish Flu" {
		t.Error("AddTimeRange output aliases its input")
	}
}
