package market

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Store holds the prediction series per instrument in memory.
type Store struct {
	mu     sync.RWMutex
	series map[Instrument][]PriceRecord
}

func NewStore() *Store {
	return &Store{series: make(map[Instrument][]PriceRecord)}
}

// Set replaces the series for an instrument. Record indexes are
// renumbered to match their position.
func (s *Store) Set(inst Instrument, recs []PriceRecord) {
	cp := make([]PriceRecord, len(recs))
	copy(cp, recs)
	for i := range cp {
		cp[i].Index = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[inst] = cp
}

// Append adds a record to the end of an instrument's series.
func (s *Store) Append(inst Instrument, rec PriceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Index = len(s.series[inst])
	s.series[inst] = append(s.series[inst], rec)
}

func (s *Store) Len(inst Instrument) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series[inst])
}

// LatestPrice is the actual price of the last record.
func (s *Store) LatestPrice(inst Instrument) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.series[inst]
	if len(recs) == 0 {
		return decimal.Zero, fmt.Errorf("latest price %s: %w", inst, ErrNoData)
	}
	return recs[len(recs)-1].Actual, nil
}

// Series returns a copy of the records in [start, end).
func (s *Store) Series(inst Instrument, start, end int) ([]PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.series[inst]
	if !ok || len(recs) == 0 {
		return nil, fmt.Errorf("series %s: %w", inst, ErrNoData)
	}
	if start < 0 || end > len(recs) || start > end {
		return nil, fmt.Errorf("series %s [%d,%d) of %d: %w", inst, start, end, len(recs), ErrRange)
	}

	out := make([]PriceRecord, end-start)
	copy(out, recs[start:end])
	return out, nil
}
