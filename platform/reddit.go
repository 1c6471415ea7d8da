package platform

import (
	"context"
	"log/slog"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/redditapi"
	"github.com/onnwee/memerelay/remux"
)

// Submissions looks up Reddit submissions.
type Submissions interface {
	SubmissionByURL(ctx context.Context, link string) (*redditapi.Submission, error)
}

// Remuxer materializes a native Reddit video as one local file.
type Remuxer interface {
	Mux(ctx context.Context, videoURL, manifestURL string) (string, error)
	Passthrough(ctx context.Context, streamURL string) (string, error)
}

// Reddit extracts submissions through the API.
type Reddit struct {
	fetch       Fetcher
	api         Submissions
	remux       Remuxer
	passthrough bool
	logger      *slog.Logger
}

// RedditOptions configures the Reddit adapter.
type RedditOptions struct {
	// Passthrough copies the HLS stream when one exists instead of muxing the
	// DASH fallback with its audio track.
	Passthrough bool
	Logger      *slog.Logger
}

// NewReddit returns the Reddit adapter.
func NewReddit(f Fetcher, api Submissions, rx Remuxer, opts RedditOptions) *Reddit {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Reddit{
		fetch:       f,
		api:         api,
		remux:       rx,
		passthrough: opts.Passthrough,
		logger:      opts.Logger.With(slog.String("platform", content.Reddit.String())),
	}
}

func (r *Reddit) Kind() content.Kind { return content.Reddit }

// Extract resolves share links to the canonical permalink, looks the
// submission up and emits, in order: self text, direct image, gallery and
// native video.
func (r *Reddit) Extract(ctx context.Context, req content.Request) (content.Result, error) {
	canonical, err := r.fetch.Resolve(ctx, req.URL)
	if err != nil {
		// the API can still look the link up by id or by URL
		r.logger.Warn("resolve failed, using link as given", slog.String("url", req.URL), slog.Any("err", err))
		canonical = req.URL
	}
	sub, err := r.api.SubmissionByURL(ctx, canonical)
	if err != nil {
		return content.Result{}, wrap(content.Reddit, err, "fetch submission")
	}

	media := sub
	if !sub.HasMedia() && len(sub.CrosspostParents) > 0 {
		media = &sub.CrosspostParents[0]
	}

	var blocks []content.Block
	if sub.SelfText != "" {
		blocks = append(blocks, content.TextBlock(sub.SelfText))
	}
	if img, ok := media.ImageURL(); ok {
		blocks = append(blocks, content.ImageBlock(img))
	}
	if urls := media.GalleryURLs(); len(urls) > 0 {
		blocks = append(blocks, content.ImageBlock(urls...))
	}
	if v := media.Video(); v != nil {
		blocks = append(blocks, r.video(ctx, v))
	}

	return content.Result{Title: content.Title(req.User, req.URL, sub.Title), Blocks: blocks}, nil
}

// video returns a local file block when the video could be materialized with
// its audio, and the remote fallback URL otherwise. It never fails.
func (r *Reddit) video(ctx context.Context, v *redditapi.RedditVideo) content.Block {
	log := r.logger.With(slog.String("video_url", v.FallbackURL))
	if !v.HasAudio || v.IsGIF || r.remux == nil {
		return content.VideoURLBlock(v.FallbackURL)
	}

	if r.passthrough && v.HLSURL != "" {
		path, err := r.remux.Passthrough(ctx, v.HLSURL)
		if err == nil {
			return content.VideoFileBlock(path)
		}
		log.WarnContext(ctx, "passthrough failed; trying manifest mux", slog.Any("err", err))
	}

	manifest := v.DashURL
	if manifest == "" {
		var ok bool
		if manifest, ok = remux.ManifestURL(v.FallbackURL); !ok {
			log.WarnContext(ctx, "no manifest for video; sending remote url")
			return content.VideoURLBlock(v.FallbackURL)
		}
	}
	path, err := r.remux.Mux(ctx, v.FallbackURL, manifest)
	if err != nil {
		log.WarnContext(ctx, "mux failed; sending remote url", slog.Any("err", err))
		return content.VideoURLBlock(v.FallbackURL)
	}
	return content.VideoFileBlock(path)
}
