package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scrape-validator/internal/redisclient"
	"scrape-validator/internal/roundfile"
	"scrape-validator/internal/storage"

	"github.com/spf13/cobra"
)

var roundsFormat string

// roundsCmd groups commands on the pending round queue.
var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Queue rounds for the serve workers and read their results",
}

var roundsEnqueueCmd = &cobra.Command{
	Use:   "enqueue <round-file>",
	Short: "Push a round file onto the pending queue",
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

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnqueueRound(ctx, round); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "enqueued round %s (%d submissions)\n", round.ID, round.Len())
		return nil
	},
}

var roundsResultCmd = &cobra.Command{
	Use:   "result <round-id>",
	Short: "Print the stored result of a scored round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := store.Result(ctx, args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no result for round %s (not scored yet or expired)", args[0])
		}
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), roundsFormat, res)
	},
}

func init() {
	roundsResultCmd.Flags().StringVar(&roundsFormat, "format", "yaml", "output format: yaml or json")
	roundsCmd.AddCommand(roundsEnqueueCmd, roundsResultCmd)
	rootCmd.AddCommand(roundsCmd)
}
