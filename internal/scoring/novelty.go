package scoring

import "scrape-validator/internal/model"

// CountOccurrences tallies how many times each item id appears across all
// submissions of a round.
func CountOccurrences(round model.Round) map[string]int {
	counts := make(map[string]int)
	for _, sub := range round.Submissions {
		for _, it := range sub {
			counts[it.ID]++
		}
	}
	return counts
}

// SharedCount sums, over a submission's items, how many other copies of the
// same id the round holds. Higher means less original work.
func SharedCount(sub model.Submission, counts map[string]int) int {
	shared := 0
	for _, it := range sub {
		if c := counts[it.ID]; c > 1 {
			shared += c - 1
		}
	}
	return shared
}
