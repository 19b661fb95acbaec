package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scrape-validator/internal/model"
)

func TestRelevance(t *testing.T) {
	sub := model.Submission{
		tweet("a", "1", "Bullish on $TAO"),
		tweet("a", "2", "gm"),
		tweet("a", "3", "#tao season"),
		tweet("a", "4", "weather is nice"),
	}
	now := time.Date(2024, 3, 1, 17, 55, 15, 0, time.UTC) // one hour after every item
	rr := Relevance(sub, "TAO", now)
	require.InDelta(t, 0.5, rr.Ratio, 1e-12)
	require.InDelta(t, 4*3600.0, rr.RecencySeconds, 1e-6)
}

func TestRelevanceEmpty(t *testing.T) {
	require.Equal(t, RelevanceRecency{}, Relevance(nil, "tao", testNow))
	require.Equal(t, RelevanceRecency{}, Relevance(model.Submission{}, "tao", testNow))
}

func TestRelevanceIgnoresBadAndFutureTimestamps(t *testing.T) {
	bad := tweet("a", "1", "tao")
	bad.Timestamp = "soon"
	future := tweet("a", "2", "tao")
	future.Timestamp = "2030-01-01 00:00:00+00:00"
	rr := Relevance(model.Submission{bad, future}, "tao", testNow)
	require.Equal(t, 1.0, rr.Ratio)
	require.Zero(t, rr.RecencySeconds)
}
