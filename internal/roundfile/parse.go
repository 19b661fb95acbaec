// Package roundfile reads scoring rounds from disk.
//
// A round file holds an optional YAML frontmatter block between two lines
// containing only "---", followed by a YAML (or JSON) list of submissions,
// one per miner, each a list of items.
package roundfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"scrape-validator/internal/model"

	"gopkg.in/yaml.v3"
)

// Header is the frontmatter of a round file.
type Header struct {
	ID     string `yaml:"id"`
	Tag    string `yaml:"tag"`
	Source string `yaml:"source"`
	Query  string `yaml:"query"`
	Miners []int  `yaml:"miners"`
}

// ParseFile reads and parses the round file at path. Rounds without an id
// are named after the file.
func ParseFile(path string) (model.Round, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Round{}, err
	}
	defer f.Close()
	r, err := Parse(f)
	if err != nil {
		return model.Round{}, fmt.Errorf("%s: %w", path, err)
	}
	if r.ID == "" {
		base := filepath.Base(path)
		r.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return r, nil
}

// Parse reads a round from r.
func Parse(r io.Reader) (model.Round, error) {
	fm, body, err := split(bufio.NewReader(r))
	if err != nil {
		return model.Round{}, err
	}

	var h Header
	if fm != "" {
		if err := yaml.Unmarshal([]byte(fm), &h); err != nil {
			return model.Round{}, fmt.Errorf("frontmatter: %w", err)
		}
	}
	var subs []model.Submission
	if strings.TrimSpace(body) != "" {
		if err := yaml.Unmarshal([]byte(body), &subs); err != nil {
			return model.Round{}, fmt.Errorf("submissions: %w", err)
		}
	}
	if len(h.Miners) > 0 && len(h.Miners) != len(subs) {
		return model.Round{}, fmt.Errorf("frontmatter lists %d miners for %d submissions", len(h.Miners), len(subs))
	}
	return model.Round{
		ID:          h.ID,
		Tag:         h.Tag,
		Source:      h.Source,
		Query:       h.Query,
		Miners:      h.Miners,
		Submissions: subs,
	}, nil
}

// split separates the frontmatter block from the body.
func split(br *bufio.Reader) (frontmatter, body string, err error) {
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", err
	}
	var fmBuf, bodyBuf strings.Builder
	if string(peek) == "---" {
		// opening delimiter
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return "", "", err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return "", "", err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				return "", "", errors.New("frontmatter: missing closing ---")
			}
		}
	}
	for {
		l, err := br.ReadString('\n')
		bodyBuf.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", "", err
		}
	}
	return fmBuf.String(), bodyBuf.String(), nil
}
