package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/textnorm"
)

// Lookup fetches ground-truth items for a batch of permalinks. It is best
// effort: it may return fewer items than urls requested.
type Lookup interface {
	SearchByURL(ctx context.Context, urls []string) ([]model.Item, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, urls []string) ([]model.Item, error)

func (f LookupFunc) SearchByURL(ctx context.Context, urls []string) ([]model.Item, error) {
	return f(ctx, urls)
}

// RetryPolicy bounds how hard the verifier works to resolve spot-check urls.
type RetryPolicy struct {
	MaxRounds    int           // batches issued at most
	BatchSize    int           // urls per batch at most
	StopAt       int           // stop once this many or fewer urls remain unresolved
	BatchTimeout time.Duration // per-batch deadline, 0 leaves it to the lookup
}

// DefaultRetryPolicy returns 5 batches of up to 20 urls, stopping once at most 3 remain.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRounds: 5, BatchSize: 20, StopAt: 3, BatchTimeout: 30 * time.Second}
}

// Validate reports whether the policy can make progress.
func (p RetryPolicy) Validate() error {
	if p.MaxRounds < 1 {
		return fmt.Errorf("retry policy: max rounds must be >= 1, got %d", p.MaxRounds)
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("retry policy: batch size must be >= 1, got %d", p.BatchSize)
	}
	if p.StopAt < 0 {
		return fmt.Errorf("retry policy: stop-at must be >= 0, got %d", p.StopAt)
	}
	if p.BatchTimeout < 0 {
		return fmt.Errorf("retry policy: negative batch timeout %s", p.BatchTimeout)
	}
	return nil
}

// DefaultPermalinkPatterns recognizes tweet permalinks on twitter.com and x.com.
var DefaultPermalinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(twitter\.com|x\.com)/\w+/status/\d+`),
}

// Sample is the spot-check record for one miner.
type Sample struct {
	Miner     int
	Index     int // sampled item index, -1 for empty submissions
	Item      model.Item
	Candidate bool        // url had a recognized permalink shape
	Truth     *model.Item // ground truth, nil when unresolved
	Correct   bool
	Fault     *Fault
}

// Verifier spot-checks one item per miner against an external lookup.
type Verifier struct {
	lookup   Lookup
	policy   RetryPolicy
	patterns []*regexp.Regexp
	logger   *slog.Logger
	recorder Recorder

	mu  sync.Mutex
	rng *rand.Rand
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithPermalinkPatterns replaces the recognized permalink shapes.
func WithPermalinkPatterns(patterns ...*regexp.Regexp) VerifierOption {
	return func(v *Verifier) { v.patterns = patterns }
}

// WithRand sets the random source used to pick samples and batch members.
func WithRand(rng *rand.Rand) VerifierOption {
	return func(v *Verifier) { v.rng = rng }
}

// WithLogger sets the verifier logger.
func WithLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) { v.logger = l }
}

// WithRecorder sets the telemetry sink for lookup batches.
func WithRecorder(r Recorder) VerifierOption {
	return func(v *Verifier) { v.recorder = r }
}

// NewVerifier builds a verifier. lookup may be nil, in which case nothing
// resolves and every miner fails verification.
func NewVerifier(lookup Lookup, policy RetryPolicy, opts ...VerifierOption) (*Verifier, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	v := &Verifier{
		lookup:   lookup,
		policy:   policy,
		patterns: DefaultPermalinkPatterns,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify samples one item per non-empty submission, resolves the sampled urls
// in bounded batches and compares each sample with its ground truth.
// The returned slice is indexed by miner position.
func (v *Verifier) Verify(ctx context.Context, round model.Round) []Sample {
	samples := v.pick(round)

	var candidates []string
	idByURL := make(map[string]string)
	for _, s := range samples {
		if !s.Candidate {
			continue
		}
		if _, ok := idByURL[s.Item.URL]; !ok {
			candidates = append(candidates, s.Item.URL)
			idByURL[s.Item.URL] = s.Item.ID
		}
	}

	truth := v.resolve(ctx, candidates, idByURL)

	for i := range samples {
		s := &samples[i]
		switch {
		case s.Index < 0:
		case !s.Candidate:
			f := fault(s.Index, ErrVerificationMiss, "unrecognized permalink %s", s.Item.URL)
			s.Fault = &f
		default:
			t, ok := truth[s.Item.ID]
			if !ok {
				v.logger.Info("spot-check: no result returned", "miner", i, "url", s.Item.URL)
				f := fault(s.Index, ErrVerificationMiss, "no ground truth for %s", s.Item.URL)
				s.Fault = &f
				continue
			}
			s.Truth = &t
			s.Correct = Matches(s.Item, t)
			if !s.Correct {
				v.logger.Info("spot-check: tampered item", "miner", i, "item", s.Item, "original", t)
				f := fault(s.Index, ErrTampered, "%s differs from ground truth", s.Item.URL)
				s.Fault = &f
			}
		}
	}
	return samples
}

func (v *Verifier) pick(round model.Round) []Sample {
	v.mu.Lock()
	defer v.mu.Unlock()

	samples := make([]Sample, round.Len())
	for i, sub := range round.Submissions {
		samples[i] = Sample{Miner: i, Index: -1}
		if len(sub) == 0 {
			continue
		}
		idx := v.rng.IntN(len(sub))
		samples[i].Index = idx
		samples[i].Item = sub[idx]
		samples[i].Candidate = sub[idx].URL != "" && v.recognized(sub[idx].URL)
	}
	return samples
}

func (v *Verifier) recognized(u string) bool {
	for _, re := range v.patterns {
		if re.MatchString(u) {
			return true
		}
	}
	return false
}

// resolve runs the bounded retry loop and returns ground truth keyed by the
// sampled item id. A returned item resolves a url by id or by url.
func (v *Verifier) resolve(ctx context.Context, candidates []string, idByURL map[string]string) map[string]model.Item {
	truth := make(map[string]model.Item)
	if len(candidates) == 0 || v.lookup == nil {
		return truth
	}

	remaining := make(map[string]struct{}, len(candidates))
	urlByID := make(map[string]string, len(candidates))
	for _, u := range candidates {
		remaining[u] = struct{}{}
		urlByID[idByURL[u]] = u
	}

	for tries := 0; tries < v.policy.MaxRounds; tries++ {
		// The first batch always goes out; later ones only while enough urls
		// are still missing to be worth another call.
		if tries > 0 && len(remaining) <= v.policy.StopAt {
			break
		}
		if ctx.Err() != nil {
			v.logger.Warn("spot-check: context done, giving up", "error", ctx.Err(), "unresolved", len(remaining))
			break
		}
		batch := v.batch(candidates, remaining)
		v.logger.Info("spot-check: validating batch", "batch", len(batch), "unresolved", len(remaining))

		items, err := v.search(ctx, batch)
		if err != nil {
			v.logger.Error("spot-check: lookup failed", "error", err, "batch", len(batch))
			v.recorder.ObserveLookupBatch(len(batch), 0, err)
			continue
		}
		resolved := 0
		for _, it := range items {
			u, ok := urlByID[it.ID]
			if !ok {
				if _, byURL := idByURL[it.URL]; !byURL {
					continue
				}
				u = it.URL
			}
			id := idByURL[u]
			if _, seen := truth[id]; !seen {
				truth[id] = it
			}
			if _, open := remaining[u]; open {
				delete(remaining, u)
				resolved++
			}
		}
		v.recorder.ObserveLookupBatch(len(batch), resolved, nil)
		v.logger.Info("spot-check: fetched batch", "resolved", resolved, "requested", len(batch))
	}
	v.logger.Info("spot-check: done", "missing", len(remaining), "candidates", len(candidates))
	return truth
}

func (v *Verifier) search(ctx context.Context, urls []string) ([]model.Item, error) {
	if v.policy.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.policy.BatchTimeout)
		defer cancel()
	}
	items, err := v.lookup.SearchByURL(ctx, urls)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: batch of %d timed out: %v", ErrLookup, len(urls), err)
		}
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	return items, nil
}

// batch draws up to BatchSize urls from the unresolved set. candidates keeps
// the draw independent of map iteration order.
func (v *Verifier) batch(candidates []string, remaining map[string]struct{}) []string {
	pool := make([]string, 0, len(remaining))
	for _, u := range candidates {
		if _, ok := remaining[u]; ok {
			pool = append(pool, u)
		}
	}
	v.mu.Lock()
	v.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	v.mu.Unlock()
	if len(pool) > v.policy.BatchSize {
		pool = pool[:v.policy.BatchSize]
	}
	return pool
}

// Matches reports whether a miner's item agrees with ground truth: equal
// normalized text and the same first 16 timestamp characters, with a "T" date
// separator read as a space.
func Matches(miner, truth model.Item) bool {
	if textnorm.Normalize(miner.Text) != textnorm.Normalize(truth.Text) {
		return false
	}
	return minuteKey(miner.Timestamp) == minuteKey(truth.Timestamp)
}

// minuteKey is the "YYYY-MM-DD hh:mm" prefix of a timestamp.
func minuteKey(ts string) string {
	p := []byte(model.TimestampPrefix(strings.TrimSpace(ts), 16))
	if len(p) > 10 && p[10] == 'T' {
		p[10] = ' '
	}
	return string(p)
}
