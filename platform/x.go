package platform

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/fetch"
)

const (
	tweetSelector = "[data-testid='tweet']"
	tweetEndpoint = "TweetResultByRestId"
	// maxVariantBitrate is an exclusive ceiling keeping videos small enough
	// to upload.
	maxVariantBitrate = 1_000_000
)

// Capturer navigates a page and returns matching background responses.
type Capturer interface {
	Capture(ctx context.Context, pageURL, waitSelector, urlPart string) ([]fetch.Capture, error)
}

// X extracts posts by rendering them in a headless browser and reading the
// post API responses the page makes.
type X struct {
	browser Capturer
	logger  *slog.Logger
}

// NewX returns the X adapter.
func NewX(c Capturer, logger *slog.Logger) *X {
	if logger == nil {
		logger = slog.Default()
	}
	return &X{browser: c, logger: logger.With(slog.String("platform", content.X.String()))}
}

func (x *X) Kind() content.Kind { return content.X }

type tweetResponse struct {
	Data struct {
		TweetResult struct {
			Result tweetResult `json:"result"`
		} `json:"tweetResult"`
	} `json:"data"`
}

type tweetResult struct {
	TypeName string       `json:"__typename"`
	RestID   string       `json:"rest_id"`
	Legacy   *tweetLegacy `json:"legacy"`
	// Tweet is set on TweetWithVisibilityResults wrappers.
	Tweet *tweetResult `json:"tweet"`
}

type tweetLegacy struct {
	IDStr            string        `json:"id_str"`
	FullText         string        `json:"full_text"`
	Entities         tweetEntities `json:"entities"`
	ExtendedEntities tweetEntities `json:"extended_entities"`
}

type tweetEntities struct {
	Media []tweetMedia `json:"media"`
}

type tweetMedia struct {
	Type          string `json:"type"`
	MediaURLHTTPS string `json:"media_url_https"`
	VideoInfo     struct {
		Variants []videoVariant `json:"variants"`
	} `json:"video_info"`
}

type videoVariant struct {
	ContentType string `json:"content_type"`
	Bitrate     int64  `json:"bitrate"`
	URL         string `json:"url"`
}

// Extract renders the post and converts each distinct intercepted post into
// blocks. The title is built once from the request.
func (x *X) Extract(ctx context.Context, req content.Request) (content.Result, error) {
	captures, err := x.browser.Capture(ctx, req.URL, tweetSelector, tweetEndpoint)
	if err != nil {
		return content.Result{}, wrap(content.X, err, "render post")
	}

	seen := make(map[string]bool)
	var blocks []content.Block
	posts := 0
	for _, c := range captures {
		var resp tweetResponse
		if err := json.Unmarshal(c.Body, &resp); err != nil {
			x.logger.WarnContext(ctx, "skipping undecodable response", slog.String("url", c.URL), slog.Any("err", err))
			continue
		}
		tr := resp.Data.TweetResult.Result
		if tr.Tweet != nil {
			tr = *tr.Tweet
		}
		if tr.Legacy == nil {
			continue
		}
		id := tr.RestID
		if id == "" {
			id = tr.Legacy.IDStr
		}
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		posts++
		blocks = append(blocks, tweetBlocks(tr.Legacy)...)
	}
	if posts == 0 {
		return content.Result{}, content.Extractionf(content.X, nil, "no post data captured")
	}
	x.logger.DebugContext(ctx, "post parsed", slog.String("url", req.URL), slog.Int("posts", posts), slog.Int("blocks", len(blocks)))

	return content.Result{Title: content.Title(req.User, req.URL, ""), Blocks: blocks}, nil
}

func tweetBlocks(l *tweetLegacy) []content.Block {
	var out []content.Block
	if l.FullText != "" {
		out = append(out, content.TextBlock(l.FullText))
	}
	media := l.ExtendedEntities.Media
	if len(media) == 0 {
		media = l.Entities.Media
	}
	for _, m := range media {
		switch m.Type {
		case "photo":
			if m.MediaURLHTTPS != "" {
				out = append(out, content.ImageBlock(m.MediaURLHTTPS))
			}
		case "video", "animated_gif":
			if u, ok := pickVariant(m.VideoInfo.Variants); ok {
				out = append(out, content.VideoURLBlock(u))
			}
		}
	}
	return out
}

// pickVariant returns the mp4 variant with the highest bitrate strictly below
// the ceiling; the first one wins ties. When no variant qualifies it falls
// back to the first mp4.
func pickVariant(vs []videoVariant) (string, bool) {
	best, first := -1, -1
	for i, v := range vs {
		if v.ContentType != "video/mp4" || v.URL == "" {
			continue
		}
		if first < 0 {
			first = i
		}
		if v.Bitrate >= maxVariantBitrate {
			continue
		}
		if best < 0 || v.Bitrate > vs[best].Bitrate {
			best = i
		}
	}
	if best < 0 {
		best = first
	}
	if best < 0 {
		return "", false
	}
	return vs[best].URL, true
}
