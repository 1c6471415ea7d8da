package platform

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/onnwee/memerelay/content"
)

// pinVideo finds direct mp4 links in the page source, including the JSON
// escaped form with `\/` separators.
var pinVideo = regexp.MustCompile(`https?:(?:\\?/){2}v\d*\.pinimg\.com(?:\\?/)videos(?:\\?/)[^"'\s<>]*?\.mp4`)

// Pinterest scrapes pin pages.
type Pinterest struct {
	fetch  Fetcher
	logger *slog.Logger
}

// NewPinterest returns the Pinterest adapter.
func NewPinterest(f Fetcher, logger *slog.Logger) *Pinterest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pinterest{fetch: f, logger: logger.With(slog.String("platform", content.Pinterest.String()))}
}

func (p *Pinterest) Kind() content.Kind { return content.Pinterest }

// Extract resolves short links, then emits the pin's video when the page
// embeds one, or its preview image otherwise. Never both.
func (p *Pinterest) Extract(ctx context.Context, req content.Request) (content.Result, error) {
	canonical, err := p.fetch.Resolve(ctx, req.URL)
	if err != nil {
		return content.Result{}, wrap(content.Pinterest, err, "resolve link")
	}
	body, err := p.fetch.Get(ctx, canonical)
	if err != nil {
		return content.Result{}, wrap(content.Pinterest, err, "fetch pin")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return content.Result{}, wrap(content.Pinterest, err, "parse pin")
	}

	text := doc.Find("title").First().Text()
	if i := strings.Index(text, "|"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	var block content.Block
	if v := pinVideo.Find(body); v != nil {
		block = content.VideoURLBlock(strings.ReplaceAll(string(v), `\/`, "/"))
	} else if img := ogImage(doc); img != "" {
		block = content.ImageBlock(img)
	} else {
		return content.Result{}, content.Extractionf(content.Pinterest, nil, "pin has no image or video")
	}
	p.logger.DebugContext(ctx, "pin parsed", slog.String("url", canonical), slog.Bool("video", len(block.VideoURLs) > 0))

	return content.Result{
		Title:  content.Title(req.User, req.URL, text),
		Blocks: []content.Block{block},
	}, nil
}

func ogImage(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="og:image"]`} {
		if v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}
