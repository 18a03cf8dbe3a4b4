package cli

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantlab/stockgym/config"
	"github.com/quantlab/stockgym/env"
	"github.com/quantlab/stockgym/internal/id"
	"github.com/quantlab/stockgym/journal"
	"github.com/quantlab/stockgym/market/data"
)

func newRunCmd(rc *rootConfig) *cobra.Command {
	var policy string
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one baseline episode over the configured history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if rc.ConfigPath != "" {
				var err error
				cfg, err = config.LoadFromFile(rc.ConfigPath)
				if err != nil {
					return err
				}
			}
			return runEpisode(cfg, policy, seed)
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "hold", "Baseline policy: hold|random")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for the random policy")
	return cmd
}

// runEpisode walks the whole calendar once with a baseline policy,
// journaling accepted fills and the daily equity curve.
func runEpisode(cfg *config.Config, policy string, seed int64) error {
	if policy != "hold" && policy != "random" {
		return fmt.Errorf("unknown policy %q", policy)
	}

	loader := &data.Loader{Dir: cfg.Market.DataDir, Start: cfg.Market.Start, End: cfg.Market.End}
	ds, err := loader.Load(cfg.Market.Codes)
	if err != nil {
		return err
	}

	e, err := env.Make(cfg.Env.Scenario, ds, env.Options{
		Investment:     cfg.Account.Investment,
		LookBackDays:   cfg.Env.LookBackDays,
		Reward:         cfg.Env.Reward,
		LimitRate:      cfg.Market.LimitRate,
		CommissionRate: cfg.Account.CommissionRate,
	})
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	if _, err := e.Reset(); err != nil {
		return err
	}

	episodeID := id.New()
	rng := rand.New(rand.NewSource(seed))
	log.Info().Str("episode", episodeID).Str("policy", policy).
		Str("scenario", cfg.Env.Scenario).Msg("episode start")

	steps := 0
	var last env.StepInfo
	for {
		action := make([]float64, e.ActionSize())
		onlyUpdate := false
		switch policy {
		case "hold":
			// Enter at the neutral bid on day one, then mark-to-market only.
			onlyUpdate = steps > 0
		case "random":
			for i := range action {
				action[i] = rng.Float64()*2 - 1
			}
		}

		_, _, done, info, err := e.Step(action, onlyUpdate)
		if err != nil {
			return err
		}
		last = info
		steps++

		for _, fill := range info.Orders {
			if err := j.RecordOrder(journal.OrderRecord{
				OrderID:   id.New(),
				EpisodeID: episodeID,
				Date:      info.Date,
				Side:      fill.Side.String(),
				Code:      fill.Code,
				CashDelta: fill.CashDelta,
				Price:     fill.Price,
				Volume:    fill.Volume,
			}); err != nil {
				return err
			}
		}
		if err := j.RecordEquity(journal.EquitySnapshot{
			EpisodeID:      episodeID,
			Date:           info.Date,
			Cash:           info.Cash,
			MarketValue:    info.MarketValue,
			PortfolioValue: info.PortfolioValue,
			DailyPnl:       info.DailyPnl,
			TotalPnl:       info.TotalPnl,
		}); err != nil {
			return err
		}

		if done {
			break
		}
	}

	log.Info().Str("episode", episodeID).Int("steps", steps).
		Float64("portfolio_value", last.PortfolioValue).Msg("episode done")
	fmt.Printf("episode %s: %d steps, final portfolio value %.2f\n",
		episodeID, steps, last.PortfolioValue)
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.OrdersFile, jc.EquityFile)
	case "none":
		return journal.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}
