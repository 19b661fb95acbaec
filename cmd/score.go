package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"scrape-validator/internal/redisclient"
	"scrape-validator/internal/roundfile"
	"scrape-validator/internal/scoring"
	"scrape-validator/internal/storage"

	"github.com/spf13/cobra"
)

var (
	scoreTag     string
	scoreOffline bool
	scoreCache   bool
	scoreFormat  string
)

type scoreOutput struct {
	Round   string          `json:"round" yaml:"round"`
	Tag     string          `json:"tag" yaml:"tag"`
	Miners  []int           `json:"miners,omitempty" yaml:"miners,omitempty"`
	Weights []float64       `json:"weights" yaml:"weights"`
	Metrics scoring.Metrics `json:"metrics" yaml:"metrics"`
}

// scoreCmd scores a round file once and prints weights and metrics.
var scoreCmd = &cobra.Command{
	Use:   "score <round-file>",
	Short: "Score a round of miner submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		round, err := roundfile.ParseFile(args[0])
		if err != nil {
			return err
		}

		deps := scorerDeps{offline: scoreOffline}
		if scoreCache && !scoreOffline {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			deps.cache = storage.NewRedisStore(rdb)
		}
		scorer, err := newScorer(cfg, deps)
		if err != nil {
			return err
		}

		tag := scoreTag
		if tag == "" {
			tag = round.Tag
		}
		if tag == "" {
			tag = cfg.Scoring.Tag
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		weights, m := scorer.ScoreSubmissions(ctx, round, tag, time.Now())
		return writeOutput(cmd.OutOrStdout(), scoreFormat, scoreOutput{
			Round:   round.ID,
			Tag:     tag,
			Miners:  round.Miners,
			Weights: weights,
			Metrics: m,
		})
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTag, "tag", "", "search tag (default: round tag, then scoring.tag)")
	scoreCmd.Flags().BoolVar(&scoreOffline, "offline", false, "skip ground-truth lookups; every miner fails the spot-check")
	scoreCmd.Flags().BoolVar(&scoreCache, "cache", false, "use the Redis lookup cache")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(scoreCmd)
}
