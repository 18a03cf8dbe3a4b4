package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/stockgym/journal"
)

func newJournalCmd(rc *rootConfig) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded episodes",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "./stockgym.sqlite", "Path to SQLite journal DB")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "episodes",
			Short: "List recorded episode IDs",
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := journal.NewSQLite(dbPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer j.Close()

				ids, err := j.ListEpisodes()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "orders EPISODE_ID",
			Short: "List an episode's accepted fills",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := journal.NewSQLite(dbPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer j.Close()

				recs, err := j.ListOrdersByEpisode(args[0])
				if err != nil {
					return err
				}
				for _, r := range recs {
					fmt.Printf("%s %-4s %-10s vol=%-8d px=%-10.2f cash=%+.2f\n",
						r.Date, r.Side, r.Code, r.Volume, r.Price, r.CashDelta)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "equity EPISODE_ID",
			Short: "Print an episode's daily equity curve",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := journal.NewSQLite(dbPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer j.Close()

				recs, err := j.ListEquityByEpisode(args[0])
				if err != nil {
					return err
				}
				for _, e := range recs {
					fmt.Printf("%s value=%-12.2f cash=%-12.2f pnl=%+.2f total=%+.2f\n",
						e.Date, e.PortfolioValue, e.Cash, e.DailyPnl, e.TotalPnl)
				}
				return nil
			},
		},
	)

	return cmd
}
