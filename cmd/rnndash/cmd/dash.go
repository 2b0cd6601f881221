package cmd

import (
	"github.com/rustyeddy/rnndash/logging"
	"github.com/rustyeddy/rnndash/ui"
	"github.com/spf13/cobra"
)

var dashLogFile string

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	Long: `Open the terminal dashboard.

Pages:
  1 Visualize  - actual vs predicted prices for the selected index
  2 Auto mode  - enable auto mode and open long/short positions
  3 Positions  - position history; close open positions
  4 Funds      - deposit and withdraw

The terminal is owned by the dashboard, so logs go to --log-file.`,
	Args: cobra.NoArgs,
	RunE: runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
	dashCmd.Flags().StringVar(&dashLogFile, "log-file", "rnndash.log", "log file used when log.file is not configured")
}

func runDash(cmd *cobra.Command, args []string) error {
	if cfg.Log.File == "" {
		log, err := logging.New(cfg.Log.Level, cfg.Log.Development, dashLogFile)
		if err != nil {
			return err
		}
		logger = log
	}

	prices, err := loadPrices()
	if err != nil {
		return err
	}
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := newSession(prices, j)
	if err != nil {
		return err
	}
	return ui.Run(ui.New(s, ui.WithLogger(logger), ui.WithCurrency(currencySymbol(cfg.Account.Currency))))
}

func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	}
	return code + " "
}
