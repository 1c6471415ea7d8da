// Package app assembles the extraction stack from a Config. Both the bot
// binary and the linkprobe CLI build their adapters here.
package app

import (
	"fmt"
	"log/slog"

	"github.com/onnwee/memerelay/config"
	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/fetch"
	"github.com/onnwee/memerelay/platform"
	"github.com/onnwee/memerelay/redditapi"
	"github.com/onnwee/memerelay/remux"
	"github.com/onnwee/memerelay/scratch"
)

// Components are the shared pieces behind every enabled adapter.
type Components struct {
	Scratch  *scratch.Dir
	Fetch    *fetch.Client
	Remux    *remux.Engine
	Registry *platform.Registry
}

// Build creates the scratch directory and one adapter per enabled platform.
// The headless browser and the Reddit client are only constructed when their
// platform is enabled.
func Build(cfg *config.Config, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := scratch.New(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	fc := fetch.New(fetch.Options{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        cfg.FetchTimeout,
		MediaTimeout:   cfg.MediaTimeout,
	})
	rx := remux.New(fc, dir, remux.Options{
		FFmpegBin: cfg.FFmpegBin,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	var adapters []platform.Adapter
	for _, k := range cfg.EnabledKinds() {
		switch k {
		case content.Pikabu:
			adapters = append(adapters, platform.NewPikabu(fc, logger))
		case content.Reddit:
			api := redditapi.New(redditapi.Config{
				ClientID:     cfg.RedditClientID,
				ClientSecret: cfg.RedditClientSecret,
				UserAgent:    cfg.RedditUserAgent,
				Timeout:      cfg.FetchTimeout,
			})
			adapters = append(adapters, platform.NewReddit(fc, api, rx, platform.RedditOptions{
				Passthrough: cfg.RemuxPassthrough,
				Logger:      logger,
			}))
		case content.X:
			br := fetch.NewBrowser(fetch.BrowserOptions{Bin: cfg.ChromeBin, Headless: cfg.BrowserHeadless})
			adapters = append(adapters, platform.NewX(br, logger))
		case content.Pinterest:
			adapters = append(adapters, platform.NewPinterest(fc, logger))
		}
	}
	reg := platform.NewRegistry(adapters...)
	logger.Info("adapters registered", slog.Any("platforms", reg.Kinds()))

	return &Components{Scratch: dir, Fetch: fc, Remux: rx, Registry: reg}, nil
}
