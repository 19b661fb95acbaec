package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scrape-validator/internal/scoring"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()
	require.Equal(t, "info", c.App.LogLevel)
	require.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	require.Equal(t, scoring.DefaultWeights(), c.Scoring.Weights)

	p, err := c.SpotCheck.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, scoring.DefaultRetryPolicy(), p)

	d, err := c.Durations()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, d.LookupTimeout)
	require.Equal(t, 5*time.Second, d.PollTimeout)

	patterns, err := c.SpotCheck.Patterns()
	require.NoError(t, err)
	require.Nil(t, patterns)
}

func TestFillDefaultsKeepsOverrides(t *testing.T) {
	c := Config{SpotCheck: SpotCheckConfig{MaxRounds: 2, BatchSize: 50, BatchTimeout: "5s"}}
	c.Scoring.Weights = scoring.Weights{Similarity: 0.25, Recency: 0.25, Length: 0.25, Relevance: 0.25}
	c.FillDefaults()
	p, err := c.SpotCheck.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, 2, p.MaxRounds)
	require.Equal(t, 50, p.BatchSize)
	require.Equal(t, 5*time.Second, p.BatchTimeout)
	require.Equal(t, 0.25, c.Scoring.Weights.Length)
	require.Equal(t, 0.5, c.Scoring.Weights.MinRelevance)
}

func TestFillDefaultsKeepsMinRelevance(t *testing.T) {
	var c Config
	c.Scoring.Weights = scoring.Weights{Similarity: 0.4, Recency: 0.2, Length: 0.2, Relevance: 0.2, MinRelevance: 0.8}
	c.FillDefaults()
	require.Equal(t, 0.8, c.Scoring.Weights.MinRelevance)
	require.Equal(t, 0.4, c.Scoring.Weights.Similarity)
}

func TestBadValues(t *testing.T) {
	var c Config
	c.FillDefaults()
	c.Worker.ResultTTL = "forever"
	_, err := c.Durations()
	require.ErrorContains(t, err, "worker.result_ttl")

	c.SpotCheck.PermalinkPatterns = []string{"("}
	_, err = c.SpotCheck.Patterns()
	require.Error(t, err)

	c.SpotCheck.BatchSize = -1
	_, err = c.SpotCheck.RetryPolicy()
	require.Error(t, err)
}
