package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/eventwindow/internal/catalog"
	"github.com/rewired-gh/eventwindow/internal/compare"
	"github.com/rewired-gh/eventwindow/internal/config"
	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
	"github.com/rewired-gh/eventwindow/internal/study"
)

var (
	// Global flags
	configPath string
	asOfYear   int

	cfg *config.Config
	st  *study.Study
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eventwindow",
	Short: "Align economic and market series around historical events",
	Long: `eventwindow loads GDP, CPI, event, and stock-index tables and cuts them
into event-centred windows for side-by-side comparison.

Each command writes its result tables to output.dir for plotting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if asOfYear != 0 {
			cfg.Reference.AsOfYear = asOfYear
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		asOf := cfg.AsOf(time.Now())
		logger.Info("Configuration loaded from %s (as-of year %d)", configPath, asOf)
		st = study.New(cfg, asOf)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVar(&asOfYear, "as-of", 0, "Reference year for year bounds (overrides reference.as_of_year)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// write logs the drops of each result and writes it.
func write(results ...*study.Result) error {
	for _, r := range results {
		study.LogDrops(r)
		paths, err := st.Write(r)
		if err != nil {
			return err
		}
		for _, p := range paths {
			logger.Info("Wrote %s", p)
		}
	}
	return nil
}

// eventFilterFlags binds catalog filter flags to cmd.
func eventFilterFlags(cmd *cobra.Command, f *catalog.Filter) {
	cmd.Flags().StringSliceVar(&f.Types, "type", nil, "Event types to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.Ranges, "range", nil, "Geographic ranges to include (repeatable)")
	cmd.Flags().IntVar(&f.StartYears.Min, "min-start", 0, "Earliest start year")
	cmd.Flags().IntVar(&f.StartYears.Max, "max-start", 0, "Latest start year")
	cmd.Flags().IntVar(&f.EndYears.Min, "min-end", 0, "Earliest end year")
	cmd.Flags().IntVar(&f.EndYears.Max, "max-end", 0, "Latest end year")
}

var (
	gdpYears     models.YearRange
	gdpCountries []string
)

var gdpCmd = &cobra.Command{
	Use:   "gdp",
	Short: "Export the World Bank GDP table narrowed by year and country",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := st.GDP(gdpYears, gdpCountries)
		if err != nil {
			return err
		}
		return write(r)
	},
}

var cpiYears models.YearRange

var cpiCmd = &cobra.Command{
	Use:   "cpi",
	Short: "Export yearly CPI means",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := st.CPI(cpiYears)
		if err != nil {
			return err
		}
		return write(r)
	},
}

var eventsFilter catalog.Filter

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Export the filtered event catalog with study windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := st.Events(eventsFilter)
		if err != nil {
			return err
		}
		return write(r)
	},
}

var (
	compareFilter catalog.Filter
	compareKinds  []string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare market index changes across event windows",
	Long: `Builds one table per event type and value kind: the percent change of both
configured market indexes inside each event's window, one column per event
and index. Events whose window leaves market coverage are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kinds []compare.ValueKind
		for _, k := range compareKinds {
			kind, err := compare.ParseValueKind(k)
			if err != nil {
				return err
			}
			kinds = append(kinds, kind)
		}
		results, err := st.Compare(compareFilter, kinds)
		if err != nil {
			return err
		}
		return write(results...)
	},
}

var (
	gdpWindowCountry string
	gdpWindowFilter  catalog.Filter
)

var gdpWindowCmd = &cobra.Command{
	Use:   "gdp-window",
	Short: "Export GDP levels around each event",
	Long: `Cuts the GDP level series from ten years before each event's start to ten
years after its end, clamped to the series. Without --country the aggregate
GDP-by-year table is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := st.GDPWindows(gdpWindowCountry, gdpWindowFilter)
		if err != nil {
			return err
		}
		return write(r)
	},
}

func init() {
	gdpCmd.Flags().IntVar(&gdpYears.Min, "min", 0, "First year column to keep")
	gdpCmd.Flags().IntVar(&gdpYears.Max, "max", 0, "Last year column to keep")
	gdpCmd.Flags().StringSliceVar(&gdpCountries, "country", nil, "Country codes to keep (repeatable)")

	cpiCmd.Flags().IntVar(&cpiYears.Min, "min", 0, "First year to keep")
	cpiCmd.Flags().IntVar(&cpiYears.Max, "max", 0, "Last year to keep")

	eventFilterFlags(eventsCmd, &eventsFilter)

	eventFilterFlags(compareCmd, &compareFilter)
	compareCmd.Flags().StringSliceVar(&compareKinds, "kind", nil, "Value kinds: nominal, real (default market.value_kind)")

	eventFilterFlags(gdpWindowCmd, &gdpWindowFilter)
	gdpWindowCmd.Flags().StringVar(&gdpWindowCountry, "country", "", "Country code (default: aggregate table)")

	rootCmd.AddCommand(gdpCmd, cpiCmd, eventsCmd, compareCmd, gdpWindowCmd)
}
