// Package content defines the platform-independent representation produced by
// the platform adapters and consumed by the delivery engine.
package content

import "fmt"

// Kind identifies one of the supported content platforms.
type Kind int

const (
	// Pikabu is the long-form story aggregator (scraped HTML).
	Pikabu Kind = iota
	// Reddit is the link aggregator / self-post site (API based).
	Reddit
	// X is the short-form social network (headless browser).
	X
	// Pinterest is the image pin board (scraped HTML).
	Pinterest
)

// Kinds lists every platform in classification priority order.
var Kinds = []Kind{Pikabu, Reddit, X, Pinterest}

func (k Kind) String() string {
	switch k {
	case Pikabu:
		return "pikabu"
	case Reddit:
		return "reddit"
	case X:
		return "x"
	case Pinterest:
		return "pinterest"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// User is the chat member who posted a link.
type User struct {
	ID          int64
	DisplayName string
}

// Request is a single extraction job input. It is read-only once built.
type Request struct {
	URL  string
	User User
}

// Block is one normalized unit of content. Any combination of fields may be
// populated; delivery handles all of them in field order.
type Block struct {
	Text      string   `json:"text,omitempty"`
	Images    []string `json:"images,omitempty"`
	VideoURLs []string `json:"video_urls,omitempty"`
	// VideoFiles are local paths owned by the pipeline. Whoever consumes the
	// block must remove them.
	VideoFiles []string `json:"video_files,omitempty"`
}

// Empty reports whether the block carries nothing to send.
func (b Block) Empty() bool {
	return b.Text == "" && len(b.Images) == 0 && len(b.VideoURLs) == 0 && len(b.VideoFiles) == 0
}

// TextBlock returns a block holding only text.
func TextBlock(s string) Block { return Block{Text: s} }

// ImageBlock returns a block holding only image URLs.
func ImageBlock(urls ...string) Block { return Block{Images: urls} }

// VideoURLBlock returns a block holding only remote video URLs.
func VideoURLBlock(urls ...string) Block { return Block{VideoURLs: urls} }

// VideoFileBlock returns a block holding only local video files.
func VideoFileBlock(paths ...string) Block { return Block{VideoFiles: paths} }

// Result is what an adapter produces: a formatted title followed by blocks in
// delivery order.
type Result struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Files returns every local video path referenced by the result, in order.
func (r Result) Files() []string {
	var out []string
	for _, b := range r.Blocks {
		out = append(out, b.VideoFiles...)
	}
	return out
}
