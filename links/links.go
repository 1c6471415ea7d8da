// Package links finds supported platform URLs in chat text.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/onnwee/memerelay/content"
)

// Match is a classified link.
type Match struct {
	Kind content.Kind
	// URL is the link as found in the text, decoded from redirect wrappers and
	// given an https scheme when it had none.
	URL string
}

type pattern struct {
	re      *regexp.Regexp
	wrapped bool // URL-encoded redirect wrapper; capture group 1 holds the link
}

// patterns per platform, tried in order. Host names sit on a word boundary so
// that e.g. "dropbox.com/" is never read as "x.com/".
var patterns = map[content.Kind][]pattern{
	content.Pikabu: {
		{re: regexp.MustCompile(`(?i)link=(https?%3A%2F%2F(?:www\.)?pikabu\.ru%2F[^\s&"']+)`), wrapped: true},
		{re: regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\bpikabu\.ru(?:/[^\s]*)?`)},
	},
	content.Reddit: {
		{re: regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|old\.|new\.)?\breddit\.com/[^\s]+`)},
	},
	content.X: {
		{re: regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|mobile\.)?\b(?:x|twitter)\.com/[^\s]+`)},
	},
	content.Pinterest: {
		{re: regexp.MustCompile(`(?i)(?:https?://)?\bpin\.it/[^\s]+`)},
		{re: regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?\bpinterest\.(?:com|[a-z]{2,3}(?:\.[a-z]{2})?)/pin/[^\s]+`)},
	},
}

// Classifier selects the platform a message links to.
type Classifier struct {
	enabled map[content.Kind]bool
}

// NewClassifier returns a classifier that only reports the given platforms.
func NewClassifier(enabled ...content.Kind) *Classifier {
	c := &Classifier{enabled: make(map[content.Kind]bool, len(enabled))}
	for _, k := range enabled {
		c.enabled[k] = true
	}
	return c
}

// Classify returns the first enabled platform whose pattern matches text.
func (c *Classifier) Classify(text string) (content.Kind, bool) {
	m, ok := c.Match(text)
	return m.Kind, ok
}

// Match is like Classify but also returns the extracted link.
func (c *Classifier) Match(text string) (Match, bool) {
	for _, k := range content.Kinds {
		if !c.enabled[k] {
			continue
		}
		if u, ok := find(k, text); ok {
			return Match{Kind: k, URL: u}, true
		}
	}
	return Match{}, false
}

// Pattern reports whether text matches k's pattern, ignoring configuration.
func Pattern(k content.Kind, text string) bool {
	_, ok := find(k, text)
	return ok
}

func find(k content.Kind, text string) (string, bool) {
	for _, p := range patterns[k] {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[0]
		if p.wrapped {
			dec, err := url.QueryUnescape(m[1])
			if err != nil {
				continue
			}
			raw = dec
		}
		return normalize(raw), true
	}
	return "", false
}

func normalize(raw string) string {
	raw = strings.TrimRight(raw, ".,;:!?)>]\"'")
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	return raw
}
