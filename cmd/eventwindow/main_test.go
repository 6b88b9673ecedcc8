package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, outDir string) string {
	t.Helper()
	td, err := filepath.Abs(filepath.Join("..", "..", "internal", "study", "testdata"))
	require.NoError(t, err)

	content := `
reference:
  as_of_year: 2021
data:
  gdp_file: "` + filepath.Join(td, "gdp.csv") + `"
  cpi_file: "` + filepath.Join(td, "cpi.csv") + `"
  events_file: "` + filepath.Join(td, "events.csv") + `"
  gdp_aggregate_file: "` + filepath.Join(td, "gdp_by_year.csv") + `"
  markets:
    - name: sp500
      file: "` + filepath.Join(td, "sp500.csv") + `"
    - name: dj
      file: "` + filepath.Join(td, "dj.csv") + `"
market:
  first_year: 1916
  last_year: 1921
output:
  dir: "` + outDir + `"
logging:
  level: error
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"gdp", "cpi", "events", "compare", "gdp-window"} {
		assert.Contains(t, names, want)
	}
}

func TestRunCommands(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := writeTestConfig(t, outDir)

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"gdp", "--min", "1975", "--max", "1975", "--country", "USA"}, want: "gdp.csv"},
		{args: []string{"cpi", "--min", "2015"}, want: "cpi.csv"},
		{args: []string{"events", "--type", "War"}, want: "events.csv"},
		{args: []string{"compare", "--type", "Pandemics", "--kind", "real"}, want: "pandemics_real_pandemics_real.csv"},
		{args: []string{"gdp-window", "--country", "USA", "--type", "Pandemics"}, want: "gdp_window_usa_Swine Flu.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			rootCmd.SetArgs(append([]string{"--config", cfgPath}, tt.args...))
			require.NoError(t, rootCmd.Execute())
			_, err := os.Stat(filepath.Join(outDir, tt.want))
			assert.NoError(t, err)
		})
	}
}

func TestRunRejectsUnknownType(t *testing.T) {
	cfgPath := writeTestConfig(t, t.TempDir())
	rootCmd.SetArgs([]string{"--config", cfgPath, "events", "--type", "Historical Events"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Historical Events")
	eventsFilter.Types = nil
}
