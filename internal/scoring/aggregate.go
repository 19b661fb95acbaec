package scoring

import (
	"fmt"
	"math"
)

// Gate names, as reported to the Recorder and in Metrics.Gates.
const (
	GateIncorrect  = "incorrect"
	GateFormat     = "format"
	GateFake       = "fake"
	GateIrrelevant = "irrelevant"
	GateEmpty      = "empty"
)

// Weights sets how much each normalized term contributes to a miner's raw score.
type Weights struct {
	Similarity   float64 `mapstructure:"similarity"`
	Recency      float64 `mapstructure:"recency"`
	Length       float64 `mapstructure:"length"`
	Relevance    float64 `mapstructure:"relevance"`
	MinRelevance float64 `mapstructure:"min_relevance"` // relevance below this zeroes the score
}

// DefaultWeights favors unique and long submissions over fresh and on-topic ones.
func DefaultWeights() Weights {
	return Weights{Similarity: 0.3, Recency: 0.2, Length: 0.3, Relevance: 0.2, MinRelevance: 0.5}
}

// Validate checks that the term weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for name, x := range map[string]float64{
		"similarity": w.Similarity, "recency": w.Recency, "length": w.Length,
		"relevance": w.Relevance, "min_relevance": w.MinRelevance,
	} {
		if x < 0 || math.IsNaN(x) {
			return fmt.Errorf("weights: %s must be >= 0, got %v", name, x)
		}
	}
	if sum := w.Similarity + w.Recency + w.Length + w.Relevance; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights: terms must sum to 1, got %v", sum)
	}
	if w.MinRelevance > 1 {
		return fmt.Errorf("weights: min_relevance must be <= 1, got %v", w.MinRelevance)
	}
	return nil
}

// AggregateInput carries the per-miner signals folded into final weights.
// Every slice is indexed by miner position and must have the same length.
type AggregateInput struct {
	Correct     []bool
	Similarity  []int
	Recency     []float64
	Length      []int
	Relevance   []float64
	FormatFault []bool
	FakeFault   []bool
	Empty       []bool
}

func (in AggregateInput) len() int {
	n := len(in.Correct)
	for _, m := range []int{len(in.Similarity), len(in.Recency), len(in.Length), len(in.Relevance),
		len(in.FormatFault), len(in.FakeFault), len(in.Empty)} {
		if m != n {
			panic(fmt.Sprintf("scoring: aggregate input length mismatch: %d != %d", m, n))
		}
	}
	return n
}

// Aggregation is the outcome of Aggregate, indexed by miner position.
type Aggregation struct {
	NormSimilarity    []float64
	NormRecency       []float64
	NormLength        []float64
	SimilarityContrib []float64
	RecencyContrib    []float64
	LengthContrib     []float64
	RelevanceContrib  []float64
	PreGate           []float64
	PostGate          []float64
	Normalized        []float64
	Gates             [][]string
}

// Aggregate combines the signals into a raw score per miner, zeroes miners
// that fail any gate and normalizes the rest to sum to 1. When every miner is
// gated the normalized weights are all zero.
func Aggregate(in AggregateInput, w Weights) Aggregation {
	n := in.len()
	out := Aggregation{
		NormSimilarity:    make([]float64, n),
		NormRecency:       make([]float64, n),
		NormLength:        make([]float64, n),
		SimilarityContrib: make([]float64, n),
		RecencyContrib:    make([]float64, n),
		LengthContrib:     make([]float64, n),
		RelevanceContrib:  make([]float64, n),
		PreGate:           make([]float64, n),
		PostGate:          make([]float64, n),
		Normalized:        make([]float64, n),
		Gates:             make([][]string, n),
	}

	var maxSim, maxLen int
	var maxRec float64
	for i := 0; i < n; i++ {
		maxSim = max(maxSim, in.Similarity[i])
		maxLen = max(maxLen, in.Length[i])
		maxRec = math.Max(maxRec, in.Recency[i])
	}

	total := 0.0
	for i := 0; i < n; i++ {
		out.NormSimilarity[i] = smooth(float64(in.Similarity[i]), float64(maxSim))
		out.NormRecency[i] = smooth(in.Recency[i], maxRec)
		out.NormLength[i] = smooth(float64(in.Length[i]), float64(maxLen))

		out.SimilarityContrib[i] = w.Similarity * (1 - out.NormSimilarity[i])
		out.RecencyContrib[i] = w.Recency * (1 - out.NormRecency[i])
		out.LengthContrib[i] = w.Length * out.NormLength[i]
		out.RelevanceContrib[i] = w.Relevance * in.Relevance[i]
		out.PreGate[i] = out.SimilarityContrib[i] + out.RecencyContrib[i] + out.LengthContrib[i] + out.RelevanceContrib[i]

		out.Gates[i] = gates(in, i, w.MinRelevance)
		if len(out.Gates[i]) == 0 {
			out.PostGate[i] = out.PreGate[i]
			total += out.PostGate[i]
		}
	}

	if total > 0 {
		for i := 0; i < n; i++ {
			out.Normalized[i] = out.PostGate[i] / total
		}
	}
	return out
}

// smooth is a Laplace-smoothed normalization against the round maximum, in (0, 1].
func smooth(v, maxV float64) float64 {
	return (v + 1) / (maxV + 1)
}

func gates(in AggregateInput, i int, minRelevance float64) []string {
	var g []string
	if !in.Correct[i] {
		g = append(g, GateIncorrect)
	}
	if in.FormatFault[i] {
		g = append(g, GateFormat)
	}
	if in.FakeFault[i] {
		g = append(g, GateFake)
	}
	if in.Relevance[i] < minRelevance {
		g = append(g, GateIrrelevant)
	}
	if in.Empty[i] {
		g = append(g, GateEmpty)
	}
	return g
}
