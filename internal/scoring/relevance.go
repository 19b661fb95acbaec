package scoring

import (
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/textnorm"
)

// RelevanceRecency holds the per-miner tag relevance and aggregate item age.
type RelevanceRecency struct {
	Ratio          float64 // share of items mentioning the tag, 0 for empty submissions
	RecencySeconds float64 // summed item age; compared across the round, never absolutely
}

// Relevance scores a submission against the round tag at time now.
// Unreadable timestamps add no age and future timestamps count as age 0.
func Relevance(sub model.Submission, tag string, now time.Time) RelevanceRecency {
	var out RelevanceRecency
	if len(sub) == 0 {
		return out
	}
	relevant := 0
	for _, it := range sub {
		if textnorm.Contains(it.Text, tag) {
			relevant++
		}
		ts, err := model.ParseTimestamp(it.Timestamp)
		if err != nil {
			continue
		}
		if age := now.Sub(ts).Seconds(); age > 0 {
			out.RecencySeconds += age
		}
	}
	out.Ratio = float64(relevant) / float64(len(sub))
	return out
}
