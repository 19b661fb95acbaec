package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"scrape-validator/internal/config"
	"scrape-validator/internal/lookup"
	"scrape-validator/internal/scoring"
	"scrape-validator/internal/tweetsearch"

	"gopkg.in/yaml.v3"
)

// scorerDeps are the optional pieces a command may plug into the scorer.
type scorerDeps struct {
	offline  bool         // no ground-truth lookups at all
	cache    lookup.Cache // nil disables the lookup cache
	recorder scoring.Recorder
}

// newScorer wires the configured lookup, retry policy and weights into a Scorer.
func newScorer(cfg config.Config, deps scorerDeps) (*scoring.Scorer, error) {
	durs, err := cfg.Durations()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.SpotCheck.RetryPolicy()
	if err != nil {
		return nil, err
	}
	patterns, err := cfg.SpotCheck.Patterns()
	if err != nil {
		return nil, err
	}

	var vopts []scoring.VerifierOption
	var sopts []scoring.ScorerOption
	if len(patterns) > 0 {
		vopts = append(vopts, scoring.WithPermalinkPatterns(patterns...))
	}
	if deps.recorder != nil {
		vopts = append(vopts, scoring.WithRecorder(deps.recorder))
		sopts = append(sopts, scoring.WithScorerRecorder(deps.recorder))
	}

	var verifier *scoring.Verifier
	if !deps.offline {
		var lk scoring.Lookup = tweetsearch.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.APIKey, durs.LookupTimeout)
		if deps.cache != nil && durs.CacheTTL > 0 {
			lk = &lookup.Cached{Upstream: lk, Cache: deps.cache, TTL: durs.CacheTTL}
		}
		verifier, err = scoring.NewVerifier(lk, policy, vopts...)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("scorer: offline mode, every miner fails the spot-check")
	}
	return scoring.NewScorer(verifier, cfg.Scoring.Weights, sopts...)
}

// writeOutput encodes v as yaml or json.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}
