// market/instruments.go
package market

import (
	"fmt"
	"strings"
)

// Instrument identifies one of the index series shown on the dashboard.
type Instrument string

const (
	IBEX35 Instrument = "IBEX35"
	SP500  Instrument = "SP500"
)

type InstrumentMeta struct {
	Name        Instrument
	DisplayName string
	Currency    string
	aliases     []string
}

var Instruments = map[Instrument]InstrumentMeta{
	IBEX35: {
		Name:        IBEX35,
		DisplayName: "IBEX 35",
		Currency:    "EUR",
		aliases:     []string{"ibex35", "ibex 35", "ibex", "^ibex"},
	},
	SP500: {
		Name:        SP500,
		DisplayName: "S&P 500",
		Currency:    "USD",
		aliases:     []string{"sp500", "s&p 500", "s&p500", "spx", "^gspc"},
	},
}

// InstrumentList returns the known instruments in display order.
func InstrumentList() []Instrument {
	return []Instrument{IBEX35, SP500}
}

func (i Instrument) String() string {
	if meta, ok := Instruments[i]; ok {
		return meta.DisplayName
	}
	return string(i)
}

// ParseInstrument accepts the canonical name or any of the common
// spellings ("IBEX 35", "S&P 500", "spx", ...).
func ParseInstrument(s string) (Instrument, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, inst := range InstrumentList() {
		meta := Instruments[inst]
		if key == strings.ToLower(string(meta.Name)) {
			return inst, nil
		}
		for _, a := range meta.aliases {
			if key == a {
				return inst, nil
			}
		}
	}
	return "", fmt.Errorf("unknown instrument: %q", s)
}
