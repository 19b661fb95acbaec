package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scrape-validator/internal/model"
)

// Metrics exposes every intermediate per-miner vector of a scored round so
// that callers can audit why a miner got its weight. All slices are indexed
// by miner position.
type Metrics struct {
	Correct           []bool     `json:"correct" yaml:"correct"`
	Similarity        []int      `json:"similarity" yaml:"similarity"`
	NormSimilarity    []float64  `json:"norm_similarity" yaml:"norm_similarity"`
	Recency           []float64  `json:"recency" yaml:"recency"`
	NormRecency       []float64  `json:"norm_recency" yaml:"norm_recency"`
	Length            []int      `json:"length" yaml:"length"`
	NormLength        []float64  `json:"norm_length" yaml:"norm_length"`
	Relevance         []float64  `json:"relevance" yaml:"relevance"`
	SimilarityContrib []float64  `json:"similarity_contrib" yaml:"similarity_contrib"`
	RecencyContrib    []float64  `json:"recency_contrib" yaml:"recency_contrib"`
	LengthContrib     []float64  `json:"length_contrib" yaml:"length_contrib"`
	RelevanceContrib  []float64  `json:"relevance_contrib" yaml:"relevance_contrib"`
	FormatFault       []bool     `json:"format" yaml:"format"`
	FakeFault         []bool     `json:"fake" yaml:"fake"`
	Empty             []bool     `json:"empty" yaml:"empty"`
	PreGate           []float64  `json:"pre_filtered_score" yaml:"pre_filtered_score"`
	PostGate          []float64  `json:"filtered_scores" yaml:"filtered_scores"`
	Weights           []float64  `json:"normalized_scores" yaml:"normalized_scores"`
	Gates             [][]string `json:"gates" yaml:"gates"`
	Faults            [][]string `json:"faults" yaml:"faults"`

	Samples []Sample  `json:"-" yaml:"-"`
	Errors  [][]Fault `json:"-" yaml:"-"`
}

// Scorer runs the full item-list scoring pipeline. A Scorer holds no round
// state and may score several rounds concurrently.
type Scorer struct {
	verifier *Verifier
	weights  Weights
	logger   *slog.Logger
	recorder Recorder
}

// ScorerOption customizes a Scorer.
type ScorerOption func(*Scorer)

// WithScorerLogger sets the logger used for round summaries.
func WithScorerLogger(l *slog.Logger) ScorerOption {
	return func(s *Scorer) { s.logger = l }
}

// WithScorerRecorder sets the telemetry sink for gates and rounds.
func WithScorerRecorder(r Recorder) ScorerOption {
	return func(s *Scorer) { s.recorder = r }
}

// NewScorer builds a scorer. A nil verifier fails every spot-check, so every
// miner is gated out.
func NewScorer(verifier *Verifier, weights Weights, opts ...ScorerOption) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		verifier: verifier,
		weights:  weights,
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ScoreSubmissions validates, spot-checks and scores every submission of the
// round, returning one weight per miner in submission order. Weights sum to 1,
// or are all zero when no miner passes the gates.
func (s *Scorer) ScoreSubmissions(ctx context.Context, round model.Round, tag string, now time.Time) ([]float64, Metrics) {
	start := time.Now()
	n := round.Len()
	if len(round.Miners) != 0 && len(round.Miners) != n {
		panic(fmt.Sprintf("scoring: round has %d miners but %d submissions", len(round.Miners), n))
	}

	in := AggregateInput{
		Correct:     make([]bool, n),
		Similarity:  make([]int, n),
		Recency:     make([]float64, n),
		Length:      make([]int, n),
		Relevance:   make([]float64, n),
		FormatFault: make([]bool, n),
		FakeFault:   make([]bool, n),
		Empty:       make([]bool, n),
	}
	faults := make([][]Fault, n)

	counts := CountOccurrences(round)
	for i, sub := range round.Submissions {
		v := Validate(sub)
		in.FormatFault[i] = v.FormatFault
		in.FakeFault[i] = v.FakeFault
		faults[i] = append(faults[i], v.Faults...)
		for _, f := range v.Faults {
			s.logger.Debug("scorer: submission fault", "miner", i, "fault", f.Error())
		}
	}

	var samples []Sample
	if s.verifier != nil {
		samples = s.verifier.Verify(ctx, round)
	} else {
		samples = make([]Sample, n)
	}

	for i, sub := range round.Submissions {
		rr := Relevance(sub, tag, now)
		in.Correct[i] = samples[i].Correct
		in.Similarity[i] = SharedCount(sub, counts)
		in.Recency[i] = rr.RecencySeconds
		in.Length[i] = len(sub)
		in.Relevance[i] = rr.Ratio
		in.Empty[i] = len(sub) == 0
		if samples[i].Fault != nil {
			faults[i] = append(faults[i], *samples[i].Fault)
		} else if !samples[i].Correct && len(sub) > 0 {
			faults[i] = append(faults[i], fault(-1, ErrVerificationMiss, "spot-check not run"))
		}
	}

	agg := Aggregate(in, s.weights)

	m := Metrics{
		Correct:           in.Correct,
		Similarity:        in.Similarity,
		NormSimilarity:    agg.NormSimilarity,
		Recency:           in.Recency,
		NormRecency:       agg.NormRecency,
		Length:            in.Length,
		NormLength:        agg.NormLength,
		Relevance:         in.Relevance,
		SimilarityContrib: agg.SimilarityContrib,
		RecencyContrib:    agg.RecencyContrib,
		LengthContrib:     agg.LengthContrib,
		RelevanceContrib:  agg.RelevanceContrib,
		FormatFault:       in.FormatFault,
		FakeFault:         in.FakeFault,
		Empty:             in.Empty,
		PreGate:           agg.PreGate,
		PostGate:          agg.PostGate,
		Weights:           agg.Normalized,
		Gates:             agg.Gates,
		Faults:            make([][]string, n),
		Samples:           samples,
		Errors:            faults,
	}
	rewarded := 0
	for i := range agg.Gates {
		for _, g := range agg.Gates[i] {
			s.recorder.ObserveGate(g)
		}
		if len(agg.Gates[i]) == 0 {
			rewarded++
		}
		for _, f := range faults[i] {
			m.Faults[i] = append(m.Faults[i], f.Error())
		}
	}
	s.recorder.ObserveRound(n, time.Since(start))
	s.logger.Info("scorer: round scored", "round", round.ID, "miners", n, "rewarded", rewarded, "elapsed", time.Since(start))
	return agg.Normalized, m
}

// Rewarded reports whether any miner received a positive weight.
func Rewarded(weights []float64) bool {
	for _, w := range weights {
		if w > 0 {
			return true
		}
	}
	return false
}
