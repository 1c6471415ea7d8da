package platform

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/onnwee/memerelay/content"
)

// NoTitle is used when a story has no title element.
const NoTitle = "No Title"

// Pikabu scrapes story pages.
type Pikabu struct {
	fetch  Fetcher
	logger *slog.Logger
}

// NewPikabu returns the Pikabu adapter.
func NewPikabu(f Fetcher, logger *slog.Logger) *Pikabu {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pikabu{fetch: f, logger: logger.With(slog.String("platform", content.Pikabu.String()))}
}

func (p *Pikabu) Kind() content.Kind { return content.Pikabu }

// Extract reads the story title and every story block in document order.
func (p *Pikabu) Extract(ctx context.Context, req content.Request) (content.Result, error) {
	doc, err := p.fetch.Document(ctx, req.URL)
	if err != nil {
		return content.Result{}, wrap(content.Pikabu, err, "fetch story")
	}

	title := strings.TrimSpace(doc.Find("h1.story__title").First().Text())
	if title == "" {
		title = NoTitle
	}

	storyBlocks := doc.Find("div.story-block")
	if storyBlocks.Length() == 0 && doc.Find("h1.story__title").Length() == 0 {
		return content.Result{}, content.Extractionf(content.Pikabu, nil, "page has no story")
	}

	var blocks []content.Block
	storyBlocks.Each(func(_ int, s *goquery.Selection) {
		blocks = appendBlock(blocks, pikabuBlock(s))
	})
	p.logger.DebugContext(ctx, "story parsed", slog.String("url", req.URL), slog.Int("blocks", len(blocks)))

	return content.Result{Title: content.Title(req.User, req.URL, title), Blocks: blocks}, nil
}

func pikabuBlock(s *goquery.Selection) content.Block {
	var b content.Block
	b.Text = strippedText(s)

	s.Find("a.image-link img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		if src != "" {
			b.Images = append(b.Images, src)
		}
	})

	s.Find("div.player").Each(func(_ int, pl *goquery.Selection) {
		for _, attr := range []string{"data-av1", "data-webm"} {
			if v := strings.TrimSpace(pl.AttrOr(attr, "")); v != "" {
				b.VideoURLs = append(b.VideoURLs, v)
				return
			}
		}
	})
	return b
}

// strippedText joins the trimmed, non-empty text nodes under s with newlines.
func strippedText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
