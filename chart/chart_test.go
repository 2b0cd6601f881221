package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func records(n int) []market.PriceRecord {
	recs := make([]market.PriceRecord, n)
	for i := range recs {
		recs[i] = market.PriceRecord{
			Index:     i,
			Actual:    decimal.NewFromInt(int64(4500 + i)),
			Predicted: decimal.NewFromInt(int64(4498 + i)),
		}
	}
	return recs
}

func TestPredictionsPNG(t *testing.T) {
	t.Parallel()

	p, err := Predictions(market.SP500, records(60))
	require.NoError(t, err)
	assert.Equal(t, "RNN prediction - S&P 500", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPredictionsEmpty(t *testing.T) {
	t.Parallel()

	_, err := Predictions(market.IBEX35, nil)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	t.Parallel()

	p, err := Predictions(market.IBEX35, records(10))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ibex.png")
	require.NoError(t, Save(p, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	assert.Error(t, Save(p, filepath.Join(t.TempDir(), "noext")))
}

func TestBalance(t *testing.T) {
	t.Parallel()

	_, err := Balance(nil)
	assert.Error(t, err)

	snaps := []journal.BalanceSnapshot{
		{Event: "open", Balance: decimal.NewFromInt(9500)},
		{Event: "close", Balance: decimal.NewFromInt(11000)},
	}
	p, err := Balance(snaps)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p, "svg"))
	assert.Contains(t, buf.String(), "<svg")
}
