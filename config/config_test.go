package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero investment", func(c *Config) { c.Account.Investment = 0 }},
		{"negative commission", func(c *Config) { c.Account.CommissionRate = -0.001 }},
		{"commission at one", func(c *Config) { c.Account.CommissionRate = 1 }},
		{"missing data dir", func(c *Config) { c.Market.DataDir = "" }},
		{"no codes", func(c *Config) { c.Market.Codes = nil }},
		{"bad date format", func(c *Config) { c.Market.Start = "2019-01-01" }},
		{"start after end", func(c *Config) { c.Market.Start, c.Market.End = "20200101", "20190101" }},
		{"negative limit rate", func(c *Config) { c.Market.LimitRate = -1 }},
		{"unknown scenario", func(c *Config) { c.Env.Scenario = "intraday" }},
		{"simple with two codes", func(c *Config) { c.Market.Codes = []string{"000001.SZ", "000002.SZ"} }},
		{"zero look-back", func(c *Config) { c.Env.LookBackDays = 0 }},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "postgres" }},
		{"csv journal without files", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }},
		{"sqlite journal without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMultiInstrumentScenarios(t *testing.T) {
	t.Parallel()
	for _, scenario := range []string{"average", "multi_vol"} {
		cfg := Default()
		cfg.Env.Scenario = scenario
		cfg.Market.Codes = []string{"000001.SZ", "600000.SH"}
		assert.NoError(t, cfg.Validate(), scenario)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Account.CommissionRate = 0.0015
	cfg.Market.LimitRate = 4.8
	cfg.Env.Reward = "daily_return"

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, cfg.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Account.Investment = -1

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadMissingAndMalformed(t *testing.T) {
	t.Parallel()
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not valid: [yaml"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
