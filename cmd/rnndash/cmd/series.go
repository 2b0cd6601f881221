package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/spf13/cobra"
)

var (
	seriesStart int
	seriesEnd   int
)

var seriesCmd = &cobra.Command{
	Use:   "series [instrument]",
	Short: "Print actual vs predicted prices",
	Long: `Print a window of a prediction table. The window is clamped the same
way the dashboard range controls are: it never starts later than 100
records before the end and spans at least 50 records.

Examples:
  rnndash series sp500
  rnndash series "IBEX 35" --start 20 --end 120`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.Flags().IntVar(&seriesStart, "start", 0, "first record")
	seriesCmd.Flags().IntVar(&seriesEnd, "end", math.MaxInt, "end record (exclusive)")
}

func runSeries(cmd *cobra.Command, args []string) error {
	inst, err := parseInstrument(args)
	if err != nil {
		return err
	}
	prices, err := loadPrices()
	if err != nil {
		return err
	}

	v, err := dashboard.Window(prices, inst, seriesStart, seriesEnd)
	if err != nil {
		return err
	}

	fmt.Printf("%s  records %d-%d of %d\n\n", inst, v.Start, v.End, v.Len)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDay\tActual\tPredicted\tError\t")
	for _, r := range v.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			r.Index, r.Day, r.Actual.StringFixed(2), r.Predicted.StringFixed(2), r.Error().StringFixed(2))
	}
	return w.Flush()
}
