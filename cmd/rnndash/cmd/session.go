package cmd

import (
	"fmt"

	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/rustyeddy/rnndash/journal"
	"github.com/rustyeddy/rnndash/ledger"
	"github.com/rustyeddy/rnndash/market"
	"go.uber.org/zap"
)

// loadPrices reads the prediction tables named in the config.
func loadPrices() (*market.Store, error) {
	files := cfg.DataFiles()
	if len(files) == 0 {
		return nil, fmt.Errorf("no prediction files configured (data.ibex_file, data.sp500_file)")
	}
	store, err := market.LoadStore(files)
	if err != nil {
		return nil, err
	}
	for inst, path := range files {
		logger.Info("loaded predictions", zap.Stringer("instrument", inst), zap.String("file", path), zap.Int("records", store.Len(inst)))
	}
	return store, nil
}

func openJournal() (journal.Journal, error) {
	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.TradesFile, cfg.Journal.BalanceFile, cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// newSession wires a fresh ledger to the prices and journal.
func newSession(prices *market.Store, j journal.Journal) (*dashboard.Session, error) {
	opts, err := cfg.LedgerOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, ledger.WithJournal(j), ledger.WithLogger(logger))

	l := ledger.New(cfg.StartingBalance(), prices, opts...)
	logger.Info("session started",
		zap.String("session", l.Session()),
		zap.Stringer("balance", cfg.StartingBalance()),
		zap.String("reference", string(l.ReferenceInstrument())))

	return dashboard.New(l, prices,
		dashboard.WithMinStake(cfg.MinStake()),
		dashboard.WithLogger(logger),
	), nil
}

func parseInstrument(args []string) (market.Instrument, error) {
	if len(args) == 0 {
		return market.ParseInstrument(cfg.Trading.ReferenceInstrument)
	}
	return market.ParseInstrument(args[0])
}
