package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"scrape-validator/internal/metrics"
	"scrape-validator/internal/redisclient"
	"scrape-validator/internal/storage"
	"scrape-validator/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the round scorer and metrics workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		durs, err := cfg.Durations()
		if err != nil {
			return err
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		reg := prometheus.NewRegistry()
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return err
		}
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}

		scorer, err := newScorer(cfg, scorerDeps{cache: store, recorder: m})
		if err != nil {
			return err
		}

		ws := []worker.Worker{&worker.RoundScorer{
			Store:         store,
			Scorer:        scorer,
			Tag:           cfg.Scoring.Tag,
			HistorySource: cfg.Scoring.HistorySource,
			PollTimeout:   durs.PollTimeout,
			ResultTTL:     durs.ResultTTL,
		}}
		slog.Info("starting round scorer", "tag", cfg.Scoring.Tag, "history_source", cfg.Scoring.HistorySource)
		if cfg.Metrics.Addr != "" {
			slog.Info("starting metrics server", "addr", cfg.Metrics.Addr)
			ws = append(ws, &worker.MetricsServer{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(reg)})
		}

		mgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
