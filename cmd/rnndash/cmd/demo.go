package cmd

import (
	"fmt"

	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/rustyeddy/rnndash/ledger"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted trading session",
	Long: `Walk through one session without any data files:

  1. Start with the configured balance (10000 by default)
  2. Enable auto mode
  3. Open a 500 position at 4500 on the reference index (long unless
     --direction short)
  4. The index moves to 4510
  5. Close the position: 10 points x scale factor 100 = 1000, a profit
     for a long and a loss for a short
  6. Open 1000 the other way and close it after a 3 point rise

Trades and balance changes go to the configured journal.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoDirection string

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoDirection, "direction", "d", "long", "direction of the first position (long or short)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	first, err := ledger.ParseDirection(demoDirection)
	if err != nil {
		return err
	}
	second := ledger.Short
	if first == ledger.Short {
		second = ledger.Long
	}

	fmt.Println("=== Paper Trading Demo ===")
	fmt.Println()

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ref, err := market.ParseInstrument(cfg.Trading.ReferenceInstrument)
	if err != nil {
		return err
	}
	prices := market.NewStore()
	move := func(px int64) {
		d := decimal.NewFromInt(px)
		prices.Append(ref, market.PriceRecord{Actual: d, Predicted: d})
		fmt.Printf("%s moves to %s\n", ref, d)
	}

	s, err := newSession(prices, j)
	if err != nil {
		return err
	}
	printSummary(s.Summary())

	s.SetAutoMode(true)
	fmt.Println("Auto mode enabled")
	move(4500)

	pos, err := s.OpenPosition(first, decimal.NewFromInt(500))
	if err != nil {
		return err
	}
	fmt.Printf("Opened position #%d: %s %s @ %s\n", pos.ID, pos.Direction, pos.Stake, pos.EntryPrice)
	printSummary(s.Summary())

	move(4510)
	closed, err := s.ClosePosition(pos.ID)
	if err != nil {
		return err
	}
	printClosed(closed)
	printSummary(s.Summary())

	pos, err = s.OpenPosition(second, decimal.NewFromInt(1000))
	if err != nil {
		return err
	}
	fmt.Printf("Opened position #%d: %s %s @ %s\n", pos.ID, pos.Direction, pos.Stake, pos.EntryPrice)

	move(4513)
	closed, err = s.ClosePosition(pos.ID)
	if err != nil {
		return err
	}
	printClosed(closed)

	if _, err := s.ClosePosition(pos.ID); err != nil {
		fmt.Printf("Closing #%d again is rejected: %v\n", pos.ID, err)
	}
	fmt.Println()
	printSummary(s.Summary())

	fmt.Println()
	fmt.Println("Positions:")
	for _, p := range s.Positions() {
		fmt.Printf("  #%d %-5s %-6s stake %s entry %s exit %s profit %s\n",
			p.ID, p.Direction, p.Status, p.Stake, p.EntryPrice, p.ExitPrice, p.Profit)
	}
	return nil
}

func printClosed(p ledger.Position) {
	fmt.Printf("Closed position #%d @ %s: change %s, profit %s\n", p.ID, p.ExitPrice, p.PriceChange, p.Profit)
}

func printSummary(sum dashboard.Summary) {
	fmt.Printf("  Balance: %s  Active: %s  Profit: %s\n",
		sum.Balance.StringFixed(2), sum.ActiveInvestment.StringFixed(2), sum.RealizedProfit.StringFixed(2))
}
