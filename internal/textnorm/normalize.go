// Package textnorm canonicalizes scraped text so that formatting differences
// between scrapers do not affect equality checks.
package textnorm

import (
	"html"
	"regexp"
	"strings"
)

var (
	// Link shorteners rewrite urls, so urls are dropped: scheme urls wherever
	// they appear, bare hosts only when they make up a whole token.
	schemeRe = regexp.MustCompile(`(?i)https?://\S*`)
	tokenRe  = regexp.MustCompile(`[^\s\p{Z}]+`)
	hostRe   = regexp.MustCompile(`(?i)^(www\.\S+|[\w-]+(\.[\w-]+)*\.[a-z]{2,}/\S*)$`)
	// Some scrapers put reply mentions at the front of the text.
	leadingMentionsRe = regexp.MustCompile(`^(@\w+\s*)+`)
	// Others trim trailing whitespace at line ends, so whitespace is ignored entirely.
	spaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Normalize removes urls, a leading run of @mentions and all whitespace, and
// decodes HTML entities. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	for {
		next := pass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// pass never grows its input, so Normalize reaches a fixpoint. Once
// whitespace is gone the text is a single token, which only counts as a host
// if all of it before the first slash is a dotted name ending in letters.
func pass(s string) string {
	s = schemeRe.ReplaceAllString(s, "")
	s = tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		if hostRe.MatchString(tok) {
			return ""
		}
		return tok
	})
	s = leadingMentionsRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// Tag canonicalizes a relevance tag for substring search in normalized text.
func Tag(tag string) string {
	return strings.ToLower(spaceRe.ReplaceAllString(html.UnescapeString(tag), ""))
}

// Contains reports whether the normalized text contains the tag, ignoring case.
func Contains(text, tag string) bool {
	t := Tag(tag)
	if t == "" {
		return false
	}
	return strings.Contains(strings.ToLower(Normalize(text)), t)
}
