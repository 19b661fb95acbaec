package worker

import (
	"context"
	"log/slog"
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/scoring"
	"scrape-validator/internal/storage"
)

// RoundStore is the queue, result and history storage used by RoundScorer.
// *storage.RedisStore satisfies it.
type RoundStore interface {
	scoring.HistoryProvider
	DequeueRound(ctx context.Context, timeout time.Duration) (model.Round, bool, error)
	SaveResult(ctx context.Context, r storage.Result, ttl time.Duration) error
	AddHistory(ctx context.Context, source string, ids ...string) error
}

// RoundScorer pops queued rounds, scores them and stores the outcome.
type RoundScorer struct {
	Store         RoundStore
	Scorer        *scoring.Scorer
	Tag           string // used when a round carries none
	HistorySource string // used when a round carries none
	PollTimeout   time.Duration
	ResultTTL     time.Duration
	RetryDelay    time.Duration
	Now           func() time.Time
}

func (w *RoundScorer) Start(ctx context.Context) error {
	poll := w.PollTimeout
	if poll <= 0 {
		poll = 5 * time.Second
	}
	retry := w.RetryDelay
	if retry <= 0 {
		retry = time.Second
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		round, ok, err := w.Store.DequeueRound(ctx, poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("round-scorer: dequeue error", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retry):
			}
			continue
		}
		if !ok {
			continue
		}
		if _, err := w.Process(ctx, round); err != nil {
			slog.Error("round-scorer: round failed", "round", round.ID, "error", err)
		}
	}
}

// Process scores one round, stores its result and records its items as seen.
func (w *RoundScorer) Process(ctx context.Context, round model.Round) (storage.Result, error) {
	now := w.now()
	tag := round.Tag
	if tag == "" {
		tag = w.Tag
	}
	source := round.Source
	if source == "" {
		source = w.HistorySource
	}

	// history is read before this round's ids are added to it
	hist, err := scoring.ScoreHistory(ctx, w.Store, source, round, now)
	if err != nil {
		slog.Warn("round-scorer: history unavailable", "round", round.ID, "source", source, "error", err)
	}

	weights, m := w.Scorer.ScoreSubmissions(ctx, round, tag, now)
	res := storage.Result{
		RoundID:       round.ID,
		Tag:           tag,
		ScoredAt:      now.UTC(),
		Miners:        round.Miners,
		Weights:       weights,
		HistoryScores: hist,
		Metrics:       m,
	}
	if err := w.Store.SaveResult(ctx, res, w.ResultTTL); err != nil {
		return res, err
	}
	if err := w.Store.AddHistory(ctx, source, round.IDs()...); err != nil {
		return res, err
	}
	slog.Info("round-scorer: stored result", "round", round.ID, "miners", round.Len(), "rewarded", scoring.Rewarded(weights))
	return res, nil
}

func (w *RoundScorer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}
