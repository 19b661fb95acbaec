package cmd

import (
	"context"
	"fmt"
	"time"

	"scrape-validator/internal/redisclient"
	"scrape-validator/internal/storage"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured Redis server and reports the queue depth.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG with the pending round count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		pending, err := storage.NewRedisStore(rdb).PendingRounds(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		fmt.Fprintf(cmd.OutOrStdout(), "pending rounds: %d\n", pending)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
