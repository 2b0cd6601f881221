package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Price,Precio_Real,Prediccion_RNN
2024-01-02,4742.83,4730.10
2024-01-03,4704.81,4738.55

2024-01-04,4688.68,4712.00
`

func TestParseInstrument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Instrument
		wantErr bool
	}{
		{"IBEX35", IBEX35, false},
		{"IBEX 35", IBEX35, false},
		{" ibex ", IBEX35, false},
		{"SP500", SP500, false},
		{"S&P 500", SP500, false},
		{"spx", SP500, false},
		{"DAX", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInstrument(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstrumentString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "IBEX 35", IBEX35.String())
	assert.Equal(t, "S&P 500", SP500.String())
	assert.Equal(t, "FOO", Instrument("FOO").String())
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	recs, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, 0, recs[0].Index)
	assert.Equal(t, "2024-01-02", recs[0].Day)
	assert.True(t, recs[0].Actual.Equal(decimal.RequireFromString("4742.83")))
	assert.True(t, recs[0].Predicted.Equal(decimal.RequireFromString("4730.10")))

	assert.Equal(t, 2, recs[2].Index)
	assert.Equal(t, "2024-01-04", recs[2].Day)
	assert.True(t, recs[2].Error().Equal(decimal.RequireFromString("23.32")))
}

func TestReadCSVColumnOrderAndNames(t *testing.T) {
	t.Parallel()

	in := "predicted,extra,Actual\n10.5,x,10\n11,y,12\n"
	recs, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// no day column: the row index is used as the label
	assert.Equal(t, "0", recs[0].Day)
	assert.True(t, recs[1].Actual.Equal(decimal.NewFromInt(12)))
	assert.True(t, recs[1].Predicted.Equal(decimal.NewFromInt(11)))
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		errMsg string
	}{
		{"empty", "", "empty csv"},
		{"missing columns", "Price,Close\n1,2\n", "missing actual or predicted"},
		{"bad number", "Price,Precio_Real,Prediccion_RNN\nd,abc,1\n", "line 2: bad actual price"},
		{"bad prediction", "Price,Precio_Real,Prediccion_RNN\nd,1,2\nd,1,??\n", "line 3: bad predicted price"},
		{"short row", "Price,Precio_Real,Prediccion_RNN\nd,1\n", "line 2: expected at least 3 fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sp := filepath.Join(dir, "sp.csv")
	require.NoError(t, os.WriteFile(sp, []byte(sampleCSV), 0o644))

	s, err := LoadStore(map[Instrument]string{SP500: sp})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len(SP500))
	assert.Equal(t, 0, s.Len(IBEX35))

	p, err := s.LatestPrice(SP500)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("4688.68")))

	_, err = LoadStore(map[Instrument]string{IBEX35: filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestStoreLatestPriceNoData(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, err := s.LatestPrice(SP500)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestStoreSeries(t *testing.T) {
	t.Parallel()

	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Append(IBEX35, PriceRecord{Index: 99, Actual: decimal.NewFromInt(int64(100 + i))})
	}

	recs, err := s.Series(IBEX35, 1, 4)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 1, recs[0].Index)
	assert.True(t, recs[2].Actual.Equal(decimal.NewFromInt(103)))

	empty, err := s.Series(IBEX35, 2, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.Series(IBEX35, 3, 2)
	assert.True(t, errors.Is(err, ErrRange))
	_, err = s.Series(IBEX35, -1, 2)
	assert.True(t, errors.Is(err, ErrRange))
	_, err = s.Series(IBEX35, 0, 6)
	assert.True(t, errors.Is(err, ErrRange))
	_, err = s.Series(SP500, 0, 1)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestStoreSeriesReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set(SP500, []PriceRecord{{Actual: decimal.NewFromInt(1)}, {Actual: decimal.NewFromInt(2)}})

	recs, err := s.Series(SP500, 0, 2)
	require.NoError(t, err)
	recs[0].Actual = decimal.NewFromInt(42)

	again, err := s.Series(SP500, 0, 1)
	require.NoError(t, err)
	assert.True(t, again[0].Actual.Equal(decimal.NewFromInt(1)))
}
