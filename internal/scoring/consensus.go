package scoring

import "fmt"

// MajorityShare is the population share at which a group's answer is taken as truth.
const MajorityShare = 0.5

// Consensus scores categorical responses by agreement. Responses are grouped
// by equality; members of a group holding at least half of the responses
// score 1, members of smaller groups score their group's share. The result has
// the same length and order as responses.
func Consensus[T comparable](responses []T) []float64 {
	scores := make([]float64, len(responses))
	if len(responses) == 0 {
		return scores
	}
	groups := make(map[T][]int)
	for i, r := range responses {
		groups[r] = append(groups[r], i)
	}
	total := float64(len(responses))
	for _, members := range groups {
		share := float64(len(members)) / total
		score := share
		if share >= MajorityShare {
			score = 1
		}
		for _, i := range members {
			scores[i] = score
		}
	}
	return scores
}

// ConsensusByMiner scores responses and keys the scores by miner uid.
// It panics if miners and responses differ in length or a uid repeats, both
// caller bugs.
func ConsensusByMiner[T comparable](miners []int, responses []T) map[int]float64 {
	if len(miners) != len(responses) {
		panic(fmt.Sprintf("scoring: %d miners but %d responses", len(miners), len(responses)))
	}
	out := make(map[int]float64, len(miners))
	for i, s := range Consensus(responses) {
		if _, dup := out[miners[i]]; dup {
			panic(fmt.Sprintf("scoring: miner %d listed twice", miners[i]))
		}
		out[miners[i]] = s
	}
	return out
}

// ScoreConsensus is the categorical fallback scorer for string responses.
func ScoreConsensus(responses []string) []float64 {
	return Consensus(responses)
}
