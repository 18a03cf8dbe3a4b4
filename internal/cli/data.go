package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/stockgym/market/data"
)

func newDataCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and manage the bar history cache",
	}
	cmd.AddCommand(newDataStatsCmd(), newDataCompressCmd())
	return cmd
}

func newDataStatsCmd() *cobra.Command {
	var dir, start, end string

	cmd := &cobra.Command{
		Use:   "stats CODE...",
		Short: "Print bar counts and date range per cached instrument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := &data.Loader{Dir: dir, Start: start, End: end}
			ds, err := loader.Load(args)
			if err != nil {
				return err
			}
			for _, code := range ds.Codes {
				h := ds.Histories[code]
				if h.Len() == 0 {
					fmt.Printf("%s: empty\n", code)
					continue
				}
				fmt.Printf("%s: %d bars, %s .. %s\n",
					code, h.Len(), h.At(0).Date, h.At(h.Len()-1).Date)
			}
			fmt.Printf("calendar: %d open dates\n", ds.Calendar.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./data", "Cache directory")
	cmd.Flags().StringVar(&start, "start", "", "Window start YYYYMMDD")
	cmd.Flags().StringVar(&end, "end", "", "Window end YYYYMMDD")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newDataCompressCmd() *cobra.Command {
	var dir, start, end string

	cmd := &cobra.Command{
		Use:   "compress CODE...",
		Short: "Rewrite plain cache CSVs as .csv.xz",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := &data.Loader{Dir: dir, Start: start, End: end}
			for _, code := range args {
				if err := loader.Compress(code); err != nil {
					return fmt.Errorf("compress %s: %w", code, err)
				}
				fmt.Printf("%s: compressed\n", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./data", "Cache directory")
	cmd.Flags().StringVar(&start, "start", "", "Window start YYYYMMDD")
	cmd.Flags().StringVar(&end, "end", "", "Window end YYYYMMDD")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}
