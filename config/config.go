package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete simulation configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Env     EnvConfig     `json:"env" yaml:"env"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// AccountConfig holds the episode's starting cash and cost model.
type AccountConfig struct {
	Investment     float64 `json:"investment" yaml:"investment"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
}

// MarketConfig selects the instruments and history window.
type MarketConfig struct {
	DataDir   string   `json:"data_dir" yaml:"data_dir"`
	Codes     []string `json:"codes" yaml:"codes"`
	Start     string   `json:"start" yaml:"start"` // YYYYMMDD
	End       string   `json:"end" yaml:"end"`     // YYYYMMDD
	LimitRate float64  `json:"limit_rate,omitempty" yaml:"limit_rate,omitempty"` // percent, 0 = default
}

// EnvConfig selects the environment variant.
type EnvConfig struct {
	Scenario     string `json:"scenario" yaml:"scenario"` // simple | average | multi_vol
	LookBackDays int    `json:"look_back_days" yaml:"look_back_days"`
	Reward       string `json:"reward,omitempty" yaml:"reward,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML first, JSON fallback).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Investment <= 0 {
		return fmt.Errorf("account.investment must be positive")
	}
	if c.Account.CommissionRate < 0 || c.Account.CommissionRate >= 1 {
		return fmt.Errorf("account.commission_rate must be in [0, 1)")
	}
	if c.Market.DataDir == "" {
		return fmt.Errorf("market.data_dir is required")
	}
	if len(c.Market.Codes) == 0 {
		return fmt.Errorf("market.codes is required")
	}
	if len(c.Market.Start) != 8 || len(c.Market.End) != 8 {
		return fmt.Errorf("market.start and market.end must be YYYYMMDD")
	}
	if c.Market.Start >= c.Market.End {
		return fmt.Errorf("market.start must precede market.end")
	}
	if c.Market.LimitRate < 0 {
		return fmt.Errorf("market.limit_rate must not be negative")
	}
	switch c.Env.Scenario {
	case "simple":
		if len(c.Market.Codes) != 1 {
			return fmt.Errorf("scenario simple needs exactly one code")
		}
	case "average", "multi_vol":
	default:
		return fmt.Errorf("unknown env.scenario: %s", c.Env.Scenario)
	}
	if c.Env.LookBackDays <= 0 {
		return fmt.Errorf("env.look_back_days must be positive")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal orders_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Investment:     100000,
			CommissionRate: 0,
		},
		Market: MarketConfig{
			DataDir: "./data",
			Codes:   []string{"000001.SZ"},
			Start:   "20190101",
			End:     "20200101",
		},
		Env: EnvConfig{
			Scenario:     "simple",
			LookBackDays: 10,
			Reward:       "simple",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./stockgym.sqlite",
		},
	}
}
