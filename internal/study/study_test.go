package study

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/eventwindow/internal/catalog"
	"github.com/rewired-gh/eventwindow/internal/compare"
	"github.com/rewired-gh/eventwindow/internal/config"
	"github.com/rewired-gh/eventwindow/internal/models"
)

const testAsOf = 2021

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	td := func(name string) string { return filepath.Join("testdata", name) }
	return &config.Config{
		Data: config.DataConfig{
			GDPFile:          td("gdp.csv"),
			CPIFile:          td("cpi.csv"),
			EventsFile:       td("events.csv"),
			GDPAggregateFile: td("gdp_by_year.csv"),
			Markets: []config.MarketFile{
				{Name: "sp500", File: td("sp500.csv")},
				{Name: "dj", File: td("dj.csv")},
			},
		},
		GDP:       config.GDPConfig{MinPossibleYear: 1960},
		Window:    config.WindowConfig{Length: 2, Anchor: "start_year", UpperBound: "inclusive"},
		Market:    config.MarketConfig{ValueKind: "nominal", FirstYear: 1916, LastYear: 1921, Frequency: "monthly"},
		GDPWindow: config.GDPWindowConfig{Padding: compare.DefaultPadding},
		Output:    config.OutputConfig{Dir: t.TempDir(), Format: "csv"},
		Logging:   config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestGDP(t *testing.T) {
	s := New(testConfig(t), testAsOf)

	r, err := s.GDP(models.YearRange{Min: 1975, Max: 1975}, []string{"usa", "XXX"})
	require.NoError(t, err)
	require.Len(t, r.Sheets, 1)
	assert.Equal(t, []string{"Country Name", "Country Code", "1975"}, r.Sheets[0].Header)
	assert.Len(t, r.Sheets[0].Rows, 1)
	assert.Equal(t, 1, r.Report.Len())

	_, err = s.GDP(models.YearRange{Max: 2021}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidMaxYear, "GDP stops at the last completed year")
}

func TestCPI(t *testing.T) {
	r, err := New(testConfig(t), testAsOf).CPI(models.YearRange{Min: 2015})
	require.NoError(t, err)
	rows := r.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, 2015, rows[0][0])
}

func TestEvents(t *testing.T) {
	r, err := New(testConfig(t), testAsOf).Events(catalog.Filter{Types: []string{"War"}})
	require.NoError(t, err)
	rows := r.Sheets[0].Rows
	require.Len(t, rows, 3)
	// World War II, start_year anchor, length 2
	assert.Equal(t, []interface{}{"World War II", "War", "Global", 1939, 1945, "10-100m", 6, 1937, 1941}, rows[0])
}

func TestEventsUnknownType(t *testing.T) {
	_, err := New(testConfig(t), testAsOf).Events(catalog.Filter{Types: []string{"Historical Events"}})
	var catErr *models.CategoryError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, []string{"Pandemics", "War"}, catErr.Valid)
}

func TestCompare(t *testing.T) {
	s := New(testConfig(t), testAsOf)

	results, err := s.Compare(catalog.Filter{}, []compare.ValueKind{compare.Nominal, compare.Real})
	require.NoError(t, err)

	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"pandemics_nominal", "pandemics_real", "war_nominal", "war_real"}, names)

	pandemics := results[0].Sheets[0]
	assert.Equal(t, []string{"offset", "Spanish Flu_sp500", "Spanish Flu_dj"}, pandemics.Header)
	require.Len(t, pandemics.Rows, 5*12-1)
	assert.Equal(t, -24, pandemics.Rows[0][0])
	assert.Equal(t, 4, results[0].Report.Len(), "other pandemics fall outside 1916-1921")

	war := results[2].Sheets[0]
	assert.Equal(t, []string{"offset"}, war.Header, "no war window fits the market coverage")
	assert.Empty(t, war.Rows)
}

func TestCompareNeedsTwoMarkets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Markets = cfg.Data.Markets[:1]
	_, err := New(cfg, testAsOf).Compare(catalog.Filter{}, nil)
	assert.Error(t, err)
}

func TestGDPWindowsForCountry(t *testing.T) {
	s := New(testConfig(t), testAsOf)

	r, err := s.GDPWindows("USA", catalog.Filter{Types: []string{"Pandemics"}})
	require.NoError(t, err)
	assert.Equal(t, "gdp_window_usa", r.Name)

	var sheetNames []string
	for _, sh := range r.Sheets {
		sheetNames = append(sheetNames, sh.Name)
	}
	assert.Equal(t, []string{"Swine Flu", "COVID-19"}, sheetNames)
	assert.Equal(t, 3, r.Report.Len())
	assert.Equal(t, []interface{}{2019, 21433226000000.0}, r.Sheets[0].Rows[0])
}

func TestGDPWindowsAggregate(t *testing.T) {
	r, err := New(testConfig(t), testAsOf).GDPWindows("", catalog.Filter{Types: []string{"Pandemics"}})
	require.NoError(t, err)
	assert.Equal(t, "gdp_window_world_gdp", r.Name)
	require.NotEmpty(t, r.Sheets)
	assert.Equal(t, "Hong Kong Flu", r.Sheets[0].Name)
	assert.Len(t, r.Sheets[0].Rows, 3)
}

func TestWrite(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, testAsOf)

	r, err := s.GDP(models.YearRange{}, []string{"IRL", "XXX"})
	require.NoError(t, err)

	paths, err := s.Write(r)
	require.NoError(t, err)
	require.Len(t, paths, 2, "table plus drop report")
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "gdp_gdp.csv"), paths[0])

	empty, err := s.Write(&Result{Name: "empty"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWriteDropReportOnly(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, testAsOf)

	// Every war starts before the IRL series, so nothing but the report is left.
	r, err := s.GDPWindows("IRL", catalog.Filter{Types: []string{"War"}, EndYears: models.YearRange{Max: 1960}})
	require.NoError(t, err)
	require.Empty(t, r.Sheets)
	require.Equal(t, 2, r.Report.Len())

	paths, err := s.Write(r)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "gdp_window_irl_dropped.csv"), paths[0])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "World War II")
	assert.Contains(t, string(data), "Korean War")
}

func TestGDPWindowsEventNamesAsOutputNames(t *testing.T) {
	events := "Event_Name,Type,Range,Start_Year,End_Year,Fatalities\n" +
		"HIV/AIDS,Pandemics,Global,1981,1990,10-100m\n" +
		"COVID-19,Pandemics,Global,2019,2021,1-10m\n"

	for _, format := range []string{"csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Output.Format = format
			cfg.Data.EventsFile = filepath.Join(t.TempDir(), "events.csv")
			require.NoError(t, os.WriteFile(cfg.Data.EventsFile, []byte(events), 0644))
			s := New(cfg, testAsOf)

			r, err := s.GDPWindows("IRL", catalog.Filter{})
			require.NoError(t, err)
			require.Len(t, r.Sheets, 2)
			assert.Equal(t, "HIV/AIDS", r.Sheets[0].Name)

			paths, err := s.Write(r)
			require.NoError(t, err)
			require.NotEmpty(t, paths)
			for _, p := range paths {
				assert.Equal(t, cfg.Output.Dir, filepath.Dir(p))
				_, err := os.Stat(p)
				assert.NoError(t, err)
			}
			if format == "csv" {
				assert.Equal(t, "gdp_window_irl_HIV_AIDS.csv", filepath.Base(paths[0]))
			}
		})
	}
}
