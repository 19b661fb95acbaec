package cmd

import (
	"fmt"

	"scrape-validator/internal/scoring"

	"github.com/spf13/cobra"
)

var consensusMiners []int

// consensusCmd scores opaque responses by majority agreement.
var consensusCmd = &cobra.Command{
	Use:   "consensus <response>...",
	Short: "Score responses by agreement with the majority",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(consensusMiners) > 0 {
			if len(consensusMiners) != len(args) {
				return fmt.Errorf("got %d miners for %d responses", len(consensusMiners), len(args))
			}
			seen := make(map[int]struct{}, len(consensusMiners))
			for _, uid := range consensusMiners {
				if _, dup := seen[uid]; dup {
					return fmt.Errorf("miner %d listed twice", uid)
				}
				seen[uid] = struct{}{}
			}
			byMiner := scoring.ConsensusByMiner(consensusMiners, args)
			for _, uid := range consensusMiners {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%g\n", uid, byMiner[uid])
			}
			return nil
		}
		for i, s := range scoring.ScoreConsensus(args) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%g\n", i, s)
		}
		return nil
	},
}

func init() {
	consensusCmd.Flags().IntSliceVar(&consensusMiners, "miners", nil, "miner uids, one per response")
	rootCmd.AddCommand(consensusCmd)
}
