// Package chart renders prediction series and balance history as images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/market"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	actualColor    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	predictedColor = color.RGBA{R: 0, G: 180, B: 200, A: 255}
	balanceColor   = color.RGBA{R: 0, G: 128, B: 255, A: 255}
)

// Default image size.
const (
	Width  = 12 * vg.Inch
	Height = 5 * vg.Inch
)

var errEmpty = errors.New("nothing to plot")

// Predictions plots actual and predicted prices against the record index.
func Predictions(inst market.Instrument, recs []market.PriceRecord) (*plot.Plot, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("predictions %s: %w", inst, errEmpty)
	}

	actual := make(plotter.XYs, len(recs))
	predicted := make(plotter.XYs, len(recs))
	for i, r := range recs {
		x := float64(r.Index)
		actual[i] = plotter.XY{X: x, Y: r.Actual.InexactFloat64()}
		predicted[i] = plotter.XY{X: x, Y: r.Predicted.InexactFloat64()}
	}

	p := plot.New()
	p.Title.Text = "RNN prediction - " + inst.String()
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Price"
	p.Add(plotter.NewGrid())

	if err := addLine(p, "Actual", actual, actualColor); err != nil {
		return nil, err
	}
	if err := addLine(p, "RNN prediction", predicted, predictedColor); err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}

// Balance plots the account balance after each journaled event.
func Balance(snaps []journal.BalanceSnapshot) (*plot.Plot, error) {
	if len(snaps) == 0 {
		return nil, fmt.Errorf("balance: %w", errEmpty)
	}

	pts := make(plotter.XYs, len(snaps))
	for i, s := range snaps {
		pts[i] = plotter.XY{X: float64(i + 1), Y: s.Balance.InexactFloat64()}
	}

	p := plot.New()
	p.Title.Text = "Balance"
	p.X.Label.Text = "Event"
	p.Y.Label.Text = "Balance"
	p.Add(plotter.NewGrid())

	if err := addLine(p, "Balance", pts, balanceColor); err != nil {
		return nil, err
	}
	return p, nil
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s line: %w", name, err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// Save writes the plot to path. The format follows the extension
// (png, svg, pdf, ...).
func Save(p *plot.Plot, path string) error {
	if filepath.Ext(path) == "" {
		return fmt.Errorf("save %s: missing file extension", path)
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Write renders the plot in the given format ("png", "svg", ...) to w.
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Width, Height, strings.ToLower(format))
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
