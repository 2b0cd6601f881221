package cmd

import (
	"fmt"

	"github.com/rustyeddy/rnndash/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage dashboard configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  rnndash config init -o rnndash.yaml
  rnndash config validate -f rnndash.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Write a configuration file. By default it holds the built-in
defaults; with --effective it holds the configuration this run resolved
from --config, the .env file and RNNDASH_* variables.

Examples:
  rnndash config init -o rnndash.yaml
  RNNDASH_SCALE_FACTOR=50 rnndash config init --effective -o tuned.json`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  rnndash config validate -f rnndash.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput    string
	configInitEffective bool
	configValidatePath  string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "rnndash.yaml", "output config file path")
	configInitCmd.Flags().BoolVar(&configInitEffective, "effective", false, "write the resolved configuration instead of the defaults")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := config.Default()
	if configInitEffective {
		out = cfg
	}
	if err := out.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Wrote configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  rnndash dash --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Account: %s (%.2f %s)\n", c.Account.ID, c.Account.StartingBalance, c.Account.Currency)
	fmt.Printf("  Trading: %s (scale %g, min stake %g, withdraw %s)\n",
		c.Trading.ReferenceInstrument, c.Trading.ScaleFactor, c.Trading.MinStake, c.Trading.WithdrawPolicy)
	for inst, path := range c.DataFiles() {
		fmt.Printf("  Data:    %s <- %s\n", inst, path)
	}
	fmt.Printf("  Journal: %s\n", c.Journal.Type)
	return nil
}
