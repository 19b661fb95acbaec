package model

// Item represents a single scraped post, tweet or comment as turned in by a miner.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	URL       string `json:"url" yaml:"url"`
	Text      string `json:"text" yaml:"text"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Likes     int    `json:"likes,omitempty" yaml:"likes,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	DataType  string `json:"dataType,omitempty" yaml:"dataType,omitempty"` // post, comment, tweet
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Community string `json:"community,omitempty" yaml:"community,omitempty"`
	Parent    string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Submission is the ordered list of items one miner returned for a query.
// A nil submission is treated as empty.
type Submission []Item

// Round holds every miner's submission for one query, indexed by miner position.
type Round struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Tag         string       `json:"tag,omitempty" yaml:"tag,omitempty"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	Query       string       `json:"query,omitempty" yaml:"query,omitempty"`
	Miners      []int        `json:"miners,omitempty" yaml:"miners,omitempty"`
	Submissions []Submission `json:"submissions" yaml:"submissions"`
}

// Len returns the number of miners in the round.
func (r Round) Len() int {
	return len(r.Submissions)
}

// IDs returns every item id in the round, in submission order.
func (r Round) IDs() []string {
	var out []string
	for _, sub := range r.Submissions {
		for _, it := range sub {
			if it.ID != "" {
				out = append(out, it.ID)
			}
		}
	}
	return out
}
