package tweetsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"scrape-validator/internal/model"
	"scrape-validator/internal/scoring"
)

// DefaultBaseURL is used when no base url is configured.
const DefaultBaseURL = "https://api.tweetsearch.local/v1"

// Client resolves tweet permalinks to their live content.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ scoring.Lookup = (*Client)(nil)

// NewClient creates a tweet-search client. A zero timeout means 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// tweet mirrors the subset of fields the search api returns.
type tweet struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Timestamp string `json:"timestamp"`
	LikeCount int    `json:"like_count"`
	Username  string `json:"username"`
}

type searchRequest struct {
	URLs []string `json:"urls"`
}

type searchResponse struct {
	Data []tweet `json:"data"`
}

// SearchByURL returns the tweets found for urls. Urls the api cannot resolve
// are simply absent from the result.
func (c *Client) SearchByURL(ctx context.Context, urls []string) ([]model.Item, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(searchRequest{URLs: urls})
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/tweets/by-url"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tweetsearch: status %d", resp.StatusCode)
	}
	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tweetsearch: decode: %w", err)
	}
	items := make([]model.Item, 0, len(raw.Data))
	for _, t := range raw.Data {
		items = append(items, convertTweet(t))
	}
	slog.Debug("tweetsearch: resolved", "requested", len(urls), "found", len(items))
	return items, nil
}

// convertTweet maps an api tweet to our Item model. Parseable timestamps are
// rewritten as RFC3339 UTC; anything else is kept verbatim.
func convertTweet(t tweet) model.Item {
	ts := strings.TrimSpace(t.CreatedAt)
	if ts == "" {
		ts = strings.TrimSpace(t.Timestamp)
	}
	if parsed, err := model.ParseTimestamp(ts); err == nil {
		ts = parsed.Format(time.RFC3339)
	}
	urlStr := strings.TrimSpace(t.URL)
	if urlStr == "" && t.Username != "" && t.ID != "" {
		urlStr = fmt.Sprintf("https://x.com/%s/status/%s", t.Username, t.ID)
	}
	return model.Item{
		ID:        t.ID,
		URL:       urlStr,
		Text:      t.Text,
		Timestamp: ts,
		Likes:     t.LikeCount,
		Username:  t.Username,
		DataType:  "tweet",
	}
}
