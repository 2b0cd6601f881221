package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/rnndash/chart"
	"github.com/rustyeddy/rnndash/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query and display records from the SQLite trade journal.

Subcommands:
  trade    - Show one trade by ID
  today    - List trades closed today
  day      - List trades closed on a specific day
  session  - List the trades of one session
  balance  - Plot the balance history of one session

Examples:
  rnndash journal trade 01HV...-1
  rnndash journal today
  rnndash journal day 2024-01-15
  rnndash journal balance 01HV... -o balance.png`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Show details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalSessionCmd = &cobra.Command{
	Use:   "session <session-id>",
	Short: "List the trades of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSession,
}

var journalBalanceCmd = &cobra.Command{
	Use:   "balance <session-id>",
	Short: "Plot the balance history of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalBalance,
}

var (
	journalDBPath     string
	journalBalanceOut string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalSessionCmd)
	journalCmd.AddCommand(journalBalanceCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default journal.db_path)")
	journalBalanceCmd.Flags().StringVarP(&journalBalanceOut, "output", "o", "balance.png", "output image path")
}

func openJournalDB() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: pass --db or set journal.db_path")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listTradesOn(time.Now().In(time.Local).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listTradesOn(args[0])
}

func listTradesOn(day string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}

func runJournalSession(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesBySession(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}

func runJournalBalance(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	snaps, err := j.ListBalanceBySession(args[0])
	if err != nil {
		return fmt.Errorf("query balance: %w", err)
	}
	p, err := chart.Balance(snaps)
	if err != nil {
		return err
	}
	if err := chart.Save(p, journalBalanceOut); err != nil {
		return err
	}

	fmt.Printf("✓ %d balance events saved to %s\n", len(snaps), journalBalanceOut)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
