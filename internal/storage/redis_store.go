package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/scoring"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const pendingKey = "validator:rounds:pending"

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func historyKey(source string) string {
	return fmt.Sprintf("validator:history:%s", source)
}

func resultKey(roundID string) string {
	return fmt.Sprintf("validator:result:%s", roundID)
}

func lookupKey(url string) string {
	return fmt.Sprintf("validator:lookup:%s", url)
}

// Result is the persisted outcome of one scored round.
type Result struct {
	RoundID       string          `json:"round_id"`
	Tag           string          `json:"tag"`
	ScoredAt      time.Time       `json:"scored_at"`
	Miners        []int           `json:"miners,omitempty"`
	Weights       []float64       `json:"weights"`
	HistoryScores []float64       `json:"history_scores,omitempty"`
	Metrics       scoring.Metrics `json:"metrics"`
}

// AddHistory records item ids as seen for a source.
func (s *RedisStore) AddHistory(ctx context.Context, source string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return s.rdb.SAdd(ctx, historyKey(source), members...).Err()
}

// HistoricalIDs returns every id recorded for a source.
func (s *RedisStore) HistoricalIDs(ctx context.Context, source string) (map[string]struct{}, error) {
	ids, err := s.rdb.SMembers(ctx, historyKey(source)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// EnqueueRound pushes a round onto the pending queue.
func (s *RedisStore) EnqueueRound(ctx context.Context, round model.Round) error {
	b, err := json.Marshal(round)
	if err != nil {
		return err
	}
	return s.rdb.LPush(ctx, pendingKey, b).Err()
}

// DequeueRound blocks up to timeout for the oldest pending round.
// ok is false when the queue stayed empty.
func (s *RedisStore) DequeueRound(ctx context.Context, timeout time.Duration) (round model.Round, ok bool, err error) {
	res, err := s.rdb.BRPop(ctx, timeout, pendingKey).Result()
	if err == redis.Nil {
		return round, false, nil
	}
	if err != nil {
		return round, false, err
	}
	// BRPOP replies with [key, value]
	if len(res) != 2 {
		return round, false, fmt.Errorf("dequeue round: unexpected reply of %d elements", len(res))
	}
	if err := json.Unmarshal([]byte(res[1]), &round); err != nil {
		return round, false, fmt.Errorf("dequeue round: %w", err)
	}
	return round, true, nil
}

// PendingRounds returns the queue length.
func (s *RedisStore) PendingRounds(ctx context.Context) (int64, error) {
	return s.rdb.LLen(ctx, pendingKey).Result()
}

// SaveResult stores a scored round for later auditing.
func (s *RedisStore) SaveResult(ctx context.Context, r Result, ttl time.Duration) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, resultKey(r.RoundID), b, ttl).Err()
}

// Result loads a stored round result.
func (s *RedisStore) Result(ctx context.Context, roundID string) (Result, error) {
	var r Result
	b, err := s.rdb.Get(ctx, resultKey(roundID)).Bytes()
	if err == redis.Nil {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, err
	}
	return r, nil
}

// CachedItems returns previously resolved ground-truth items keyed by url.
func (s *RedisStore) CachedItems(ctx context.Context, urls []string) (map[string]model.Item, error) {
	out := make(map[string]model.Item)
	if len(urls) == 0 {
		return out, nil
	}
	keys := make([]string, len(urls))
	for i, u := range urls {
		keys[i] = lookupKey(u)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // miss
		}
		var it model.Item
		if err := json.Unmarshal([]byte(str), &it); err != nil {
			continue
		}
		out[urls[i]] = it
	}
	return out, nil
}

// CacheItems stores resolved ground-truth items under the url they were requested by.
func (s *RedisStore) CacheItems(ctx context.Context, items map[string]model.Item, ttl time.Duration) error {
	if len(items) == 0 || ttl <= 0 {
		return nil
	}
	pipe := s.rdb.Pipeline()
	for u, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return err
		}
		pipe.Set(ctx, lookupKey(u), b, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
