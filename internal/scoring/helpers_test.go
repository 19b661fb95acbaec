package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"scrape-validator/internal/model"
)

var testNow = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func tweet(user, id, text string) model.Item {
	return model.Item{
		ID:        id,
		URL:       "https://x.com/" + user + "/status/" + id,
		Text:      text,
		Timestamp: "2024-03-01 16:55:15+00:00",
		Username:  user,
		DataType:  "tweet",
	}
}

// corpusLookup answers from a fixed set of ground-truth items and records each batch.
type corpusLookup struct {
	mu     sync.Mutex
	corpus map[string]model.Item
	skip   map[string]bool
	fail   int // fail this many calls before answering
	calls  [][]string
}

func newCorpus(items ...model.Item) *corpusLookup {
	c := &corpusLookup{corpus: map[string]model.Item{}, skip: map[string]bool{}}
	for _, it := range items {
		c.corpus[it.URL] = it
	}
	return c
}

func (c *corpusLookup) SearchByURL(_ context.Context, urls []string) ([]model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, append([]string(nil), urls...))
	if c.fail > 0 {
		c.fail--
		return nil, errors.New("provider unavailable")
	}
	var out []model.Item
	for _, u := range urls {
		if it, ok := c.corpus[u]; ok && !c.skip[u] {
			out = append(out, it)
		}
	}
	return out, nil
}

type countingRecorder struct {
	mu        sync.Mutex
	batches   int
	errs      int
	requested int
	resolved  int
	gates     map[string]int
	rounds    int
}

func (r *countingRecorder) ObserveLookupBatch(requested, resolved int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	r.requested += requested
	r.resolved += resolved
	if err != nil {
		r.errs++
	}
}

func (r *countingRecorder) ObserveGate(g string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gates == nil {
		r.gates = map[string]int{}
	}
	r.gates[g]++
}

func (r *countingRecorder) ObserveRound(int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds++
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}
