package cmd

import (
	"context"
	"fmt"
	"time"

	"scrape-validator/internal/redisclient"
	"scrape-validator/internal/roundfile"
	"scrape-validator/internal/scoring"
	"scrape-validator/internal/storage"

	"github.com/spf13/cobra"
)

var historySource string

// historyCmd groups commands on the seen-item history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Seen-item history utilities",
}

var historyScoreCmd = &cobra.Command{
	Use:   "score <round-file>",
	Short: "Score each submission by freshness against the stored history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		round, err := roundfile.ParseFile(args[0])
		if err != nil {
			return err
		}
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scores, err := scoring.ScoreHistory(ctx, store, sourceFor(round.Source), round, time.Now())
		if err != nil {
			return err
		}
		for i, s := range scores {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%g\n", minerID(round.Miners, i), s)
		}
		return nil
	},
}

var historyAddCmd = &cobra.Command{
	Use:   "add <round-file>",
	Short: "Record every item id of a round as seen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		round, err := roundfile.ParseFile(args[0])
		if err != nil {
			return err
		}
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ids := round.IDs()
		source := sourceFor(round.Source)
		if err := store.AddHistory(ctx, source, ids...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %d ids for %s\n", len(ids), source)
		return nil
	},
}

// sourceFor picks the --source flag, then the round's source, then the config.
func sourceFor(roundSource string) string {
	if historySource != "" {
		return historySource
	}
	if roundSource != "" {
		return roundSource
	}
	return GetConfig().Scoring.HistorySource
}

// minerID returns the uid at position i, or i itself when uids are unknown.
func minerID(miners []int, i int) int {
	if i < len(miners) {
		return miners[i]
	}
	return i
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historySource, "source", "", "history source (default: round source, then scoring.history_source)")
	historyCmd.AddCommand(historyScoreCmd, historyAddCmd)
	rootCmd.AddCommand(historyCmd)
}
