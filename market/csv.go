package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	dayColumns       = []string{"price", "día", "dia", "day", "date", "index"}
	actualColumns    = []string{"precio_real", "actual", "real"}
	predictedColumns = []string{"prediccion_rnn", "predicción_rnn", "predicted", "prediction"}
)

// LoadCSV reads a prediction table from path.
func LoadCSV(path string) ([]PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV parses a prediction table. The first row must be a header; the
// day, actual and predicted columns are located by name so extra columns
// and column order do not matter.
func ReadCSV(r io.Reader) ([]PriceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}

	dayCol := findColumn(header, dayColumns)
	actualCol := findColumn(header, actualColumns)
	predCol := findColumn(header, predictedColumns)
	if actualCol < 0 || predCol < 0 {
		return nil, fmt.Errorf("csv header %v: missing actual or predicted column", header)
	}

	var out []PriceRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}
		if len(row) <= actualCol || len(row) <= predCol {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(actualCol, predCol)+1, len(row))
		}

		actual, err := decimal.NewFromString(strings.TrimSpace(row[actualCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad actual price %q: %w", line, row[actualCol], err)
		}
		pred, err := decimal.NewFromString(strings.TrimSpace(row[predCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad predicted price %q: %w", line, row[predCol], err)
		}

		rec := PriceRecord{
			Index:     len(out),
			Actual:    actual,
			Predicted: pred,
		}
		if dayCol >= 0 && dayCol < len(row) {
			rec.Day = strings.TrimSpace(row[dayCol])
		} else {
			rec.Day = fmt.Sprint(rec.Index)
		}
		out = append(out, rec)
	}

	return out, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// LoadStore loads one prediction table per instrument into a new Store.
func LoadStore(paths map[Instrument]string) (*Store, error) {
	s := NewStore()
	for _, inst := range InstrumentList() {
		path, ok := paths[inst]
		if !ok || path == "" {
			continue
		}
		recs, err := LoadCSV(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", inst, err)
		}
		s.Set(inst, recs)
	}
	return s, nil
}
