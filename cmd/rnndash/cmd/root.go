package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/rnndash/config"
	"github.com/rustyeddy/rnndash/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "rnndash",
	Short: "Paper-trading dashboard for RNN index predictions",
	Long: `rnndash shows precomputed RNN price predictions for the IBEX 35 and
S&P 500 next to the actual prices, and lets you simulate long and short
positions against a synthetic balance.

Nothing is traded for real and the ledger starts fresh on every run. An
optional journal (CSV or SQLite) keeps an audit trail of closed positions
and balance changes.

Configuration is read from --config (YAML or JSON), then overridden by
RNNDASH_* environment variables, which may also come from a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with RNNDASH_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	c := config.Default()
	if cfgFile != "" {
		var err error
		if c, err = config.ReadFile(cfgFile); err != nil {
			return err
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development, cfg.Log.File)
	if err != nil {
		return err
	}
	logger = log
	logger.Debug("config loaded", zap.String("file", cfgFile), zap.String("journal", cfg.Journal.Type))
	return nil
}
