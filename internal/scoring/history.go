package scoring

import (
	"context"
	"log/slog"
	"time"

	"scrape-validator/internal/model"
)

// HistoryProvider returns ids seen in earlier rounds for a source. The core
// only reads from it.
type HistoryProvider interface {
	HistoricalIDs(ctx context.Context, source string) (map[string]struct{}, error)
}

const (
	historyAgeHorizon = 10 * 24 * time.Hour
	historyTimeWeight = 0.15
	historySeenWeight = 0.5
)

// HistoryScore is the simpler per-miner scorer used when cross-miner
// comparison is unavailable: it rewards fresh items not seen in earlier rounds.
//
//	score = 1 - 0.15*timeScore - 0.5*seenShare
//
// where timeScore is the mean item age over ten days, capped at 1. The result
// is not clamped: future timestamps push it above 1.
func HistoryScore(sub model.Submission, history map[string]struct{}, now time.Time) float64 {
	if len(sub) == 0 {
		return 0
	}
	seen := 0
	var ageSeconds float64
	for _, it := range sub {
		if _, ok := history[it.ID]; ok {
			seen++
		}
		if ts, err := model.ParseTimestamp(it.Timestamp); err == nil {
			ageSeconds += now.Sub(ts).Seconds()
		}
	}
	n := float64(len(sub))
	seenShare := float64(seen) / n
	timeScore := (ageSeconds / n) / historyAgeHorizon.Seconds()
	if timeScore > 1 {
		timeScore = 1
	}
	score := 1 - historyTimeWeight*timeScore - historySeenWeight*seenShare
	if score < 0 || score > 1 {
		slog.Warn("history-score: score outside [0,1]", "score", score, "time_score", timeScore, "seen_share", seenShare)
	}
	return score
}

// ScoreHistory scores every submission of a round against the provider's
// history for source. A provider error is returned as is; the caller decides
// whether to fall back.
func ScoreHistory(ctx context.Context, hp HistoryProvider, source string, round model.Round, now time.Time) ([]float64, error) {
	history, err := hp.HistoricalIDs(ctx, source)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, round.Len())
	for i, sub := range round.Submissions {
		scores[i] = HistoryScore(sub, history, now)
	}
	return scores, nil
}
