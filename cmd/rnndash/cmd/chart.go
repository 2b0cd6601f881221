package cmd

import (
	"fmt"
	"math"

	"github.com/rustyeddy/rnndash/chart"
	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/spf13/cobra"
)

var (
	chartOut    string
	chartFormat string
	chartStart  int
	chartEnd    int
)

var chartCmd = &cobra.Command{
	Use:   "chart [instrument]",
	Short: "Plot actual vs predicted prices to an image",
	Long: `Render the actual and RNN-predicted prices of one index. The output
format follows the file extension (png, svg, pdf). With -o - the image
is written to stdout in --format.

Examples:
  rnndash chart sp500 -o sp500.png
  rnndash chart ibex --start 100 --end 200 -o ibex.svg
  rnndash chart sp500 -o - --format svg > sp500.svg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "predictions.png", "output image path")
	chartCmd.Flags().StringVar(&chartFormat, "format", "png", "image format when writing to stdout")
	chartCmd.Flags().IntVar(&chartStart, "start", 0, "first record")
	chartCmd.Flags().IntVar(&chartEnd, "end", math.MaxInt, "end record (exclusive)")
}

func runChart(cmd *cobra.Command, args []string) error {
	inst, err := parseInstrument(args)
	if err != nil {
		return err
	}
	prices, err := loadPrices()
	if err != nil {
		return err
	}

	v, err := dashboard.Window(prices, inst, chartStart, chartEnd)
	if err != nil {
		return err
	}
	p, err := chart.Predictions(inst, v.Records)
	if err != nil {
		return err
	}
	if chartOut == "-" {
		return chart.Write(cmd.OutOrStdout(), p, chartFormat)
	}
	if err := chart.Save(p, chartOut); err != nil {
		return err
	}

	fmt.Printf("✓ %s records %d-%d saved to %s\n", inst, v.Start, v.End, chartOut)
	return nil
}
