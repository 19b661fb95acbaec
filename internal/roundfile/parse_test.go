package roundfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWithFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "round-42.yaml")
	content := "" +
		"---\n" +
		"tag: \"#bitcoin\"\n" +
		"source: twitter\n" +
		"miners: [7, 11]\n" +
		"---\n" +
		"- - id: \"1\"\n" +
		"    url: https://x.com/alice/status/1\n" +
		"    text: \"#bitcoin to the moon\"\n" +
		"    timestamp: \"2024-03-01 10:20:30+00:00\"\n" +
		"    likes: 3\n" +
		"- []\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	r, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if r.ID != "round-42" {
		t.Errorf("id = %q, want file name", r.ID)
	}
	if r.Tag != "#bitcoin" || r.Source != "twitter" {
		t.Errorf("unexpected header: %+v", r)
	}
	if len(r.Miners) != 2 || r.Miners[1] != 11 {
		t.Errorf("miners = %v", r.Miners)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 submissions, got %d", r.Len())
	}
	it := r.Submissions[0][0]
	if it.ID != "1" || it.Likes != 3 || it.Timestamp != "2024-03-01 10:20:30+00:00" {
		t.Errorf("unexpected item: %+v", it)
	}
	if len(r.Submissions[1]) != 0 {
		t.Errorf("expected empty second submission, got %v", r.Submissions[1])
	}
}

func TestParseJSONBody(t *testing.T) {
	body := `[[{"id":"5","url":"https://x.com/b/status/5","text":"hi","timestamp":"2024-01-01T00:00:00Z","dataType":"tweet"}], null]`
	r, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 submissions, got %d", r.Len())
	}
	if r.Submissions[0][0].DataType != "tweet" {
		t.Errorf("dataType not decoded: %+v", r.Submissions[0][0])
	}
	if r.Submissions[1] != nil {
		t.Errorf("null submission should decode as nil")
	}
	if r.ID != "" {
		t.Errorf("reader input has no id, got %q", r.ID)
	}
}

func TestParseMinerCountMismatch(t *testing.T) {
	content := "---\nminers: [1, 2, 3]\n---\n- []\n"
	if _, err := Parse(strings.NewReader(content)); err == nil {
		t.Fatalf("expected error for miner count mismatch")
	}
}

func TestParseUnterminatedFrontmatter(t *testing.T) {
	if _, err := Parse(strings.NewReader("---\nid: x\n")); err == nil {
		t.Fatalf("expected error for missing closing delimiter")
	}
}

func TestParseEmpty(t *testing.T) {
	r, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected no submissions, got %d", r.Len())
	}
}
