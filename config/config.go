package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/rnndash/ledger"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID              string  `json:"id" yaml:"id"`
	Currency        string  `json:"currency" yaml:"currency"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// TradingConfig controls how positions are priced and settled
type TradingConfig struct {
	ReferenceInstrument string  `json:"reference_instrument" yaml:"reference_instrument"`
	ScaleFactor         float64 `json:"scale_factor" yaml:"scale_factor"`
	MinStake            float64 `json:"min_stake" yaml:"min_stake"`
	WithdrawPolicy      string  `json:"withdraw_policy" yaml:"withdraw_policy"` // "reject" or "clamp"
}

// DataConfig points at the prediction tables
type DataConfig struct {
	IbexFile  string `json:"ibex_file,omitempty" yaml:"ibex_file,omitempty"`
	SP500File string `json:"sp500_file,omitempty" yaml:"sp500_file,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	BalanceFile string `json:"balance_file,omitempty" yaml:"balance_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads and validates configuration from a file (JSON or
// YAML). Keys the file leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile parses a config file over the defaults without validating it,
// so later overrides such as ApplyEnv can still correct it.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.StartingBalance < 0 {
		return fmt.Errorf("account.starting_balance must not be negative")
	}
	if _, err := market.ParseInstrument(c.Trading.ReferenceInstrument); err != nil {
		return fmt.Errorf("trading.reference_instrument: %w", err)
	}
	if c.Trading.ScaleFactor <= 0 {
		return fmt.Errorf("trading.scale_factor must be positive")
	}
	if c.Trading.MinStake < 0 {
		return fmt.Errorf("trading.min_stake must not be negative")
	}
	if _, err := ledger.ParseWithdrawPolicy(c.Trading.WithdrawPolicy); err != nil {
		return fmt.Errorf("trading.withdraw_policy: %w", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.BalanceFile == "" {
			return fmt.Errorf("journal trades_file and balance_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with RNNDASH_* variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
		return nil
	}

	if err := num("RNNDASH_STARTING_BALANCE", &c.Account.StartingBalance); err != nil {
		return err
	}
	if err := num("RNNDASH_SCALE_FACTOR", &c.Trading.ScaleFactor); err != nil {
		return err
	}
	if err := num("RNNDASH_MIN_STAKE", &c.Trading.MinStake); err != nil {
		return err
	}
	str("RNNDASH_CURRENCY", &c.Account.Currency)
	str("RNNDASH_REFERENCE_INSTRUMENT", &c.Trading.ReferenceInstrument)
	str("RNNDASH_WITHDRAW_POLICY", &c.Trading.WithdrawPolicy)
	str("RNNDASH_IBEX_FILE", &c.Data.IbexFile)
	str("RNNDASH_SP500_FILE", &c.Data.SP500File)
	str("RNNDASH_JOURNAL_TYPE", &c.Journal.Type)
	str("RNNDASH_JOURNAL_TRADES", &c.Journal.TradesFile)
	str("RNNDASH_JOURNAL_BALANCE", &c.Journal.BalanceFile)
	str("RNNDASH_JOURNAL_DB", &c.Journal.DBPath)
	str("RNNDASH_LOG_LEVEL", &c.Log.Level)
	str("RNNDASH_LOG_FILE", &c.Log.File)
	return nil
}

// LedgerOptions translates the trading section into ledger options.
// Call Validate first.
func (c *Config) LedgerOptions() ([]ledger.Option, error) {
	inst, err := market.ParseInstrument(c.Trading.ReferenceInstrument)
	if err != nil {
		return nil, err
	}
	policy, err := ledger.ParseWithdrawPolicy(c.Trading.WithdrawPolicy)
	if err != nil {
		return nil, err
	}
	return []ledger.Option{
		ledger.WithReferenceInstrument(inst),
		ledger.WithScaleFactor(decimal.NewFromFloat(c.Trading.ScaleFactor)),
		ledger.WithWithdrawPolicy(policy),
	}, nil
}

func (c *Config) StartingBalance() decimal.Decimal {
	return decimal.NewFromFloat(c.Account.StartingBalance)
}

func (c *Config) MinStake() decimal.Decimal {
	return decimal.NewFromFloat(c.Trading.MinStake)
}

// DataFiles maps each configured instrument to its CSV path.
func (c *Config) DataFiles() map[market.Instrument]string {
	files := make(map[market.Instrument]string)
	if c.Data.IbexFile != "" {
		files[market.IBEX35] = c.Data.IbexFile
	}
	if c.Data.SP500File != "" {
		files[market.SP500] = c.Data.SP500File
	}
	return files
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:              "DEMO-001",
			Currency:        "EUR",
			StartingBalance: 10000,
		},
		Trading: TradingConfig{
			ReferenceInstrument: string(market.SP500),
			ScaleFactor:         100,
			MinStake:            100,
			WithdrawPolicy:      string(ledger.WithdrawReject),
		},
		Data: DataConfig{
			IbexFile:  "predicciones_ibex.csv",
			SP500File: "predicciones_rnn_sp.csv",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
