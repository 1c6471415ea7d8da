// Package delivery sends an extraction result to a chat: the title first, then
// every block in order. Individual media failures are reported inline and do
// not stop the job; text sends are retried on transient errors.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/scratch"
	"github.com/onnwee/memerelay/telemetry"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = 5 * time.Second
)

// Options configures an Engine.
type Options struct {
	// Attempts is the total number of tries for a text send (default 3).
	Attempts int
	// BaseDelay is the wait after the first failed attempt; it doubles after
	// each further failure (default 5s).
	BaseDelay time.Duration
	Logger    *slog.Logger
	// Sleep waits between attempts. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Engine delivers results through a Sender.
type Engine struct {
	chat      Sender
	attempts  int
	baseDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger
}

// New returns an Engine sending through chat.
func New(chat Sender, opts Options) *Engine {
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		chat:      chat,
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
		sleep:     opts.Sleep,
		logger:    opts.Logger.With(slog.String("component", "delivery")),
	}
}

// Deliver sends res to chatID in order: the title, then for each block its
// text, images, remote videos and local video files. Local files are removed
// right after their send attempt.
//
// A failed photo or video send is reported with a short notice and delivery
// continues. Deliver returns an error only when a text send fails for good;
// in that case it has already sent one best-effort notice and removed every
// local file still referenced by res, so the caller must not notify again.
func (e *Engine) Deliver(ctx context.Context, chatID int64, res content.Result) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "delivery", "delivery.deliver",
		telemetry.ChatAttr(chatID), attribute.Int("blocks", len(res.Blocks)))
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetSpanSuccess(span)
		}
		span.End()
	}()

	log := e.logger.With(slog.Int64("chat_id", chatID))
	if corr := telemetry.GetCorrelation(ctx); corr != "" {
		log = log.With(slog.String("corr", corr))
	}

	telemetry.TimeFunc(telemetry.DeliveryDuration, func() {
		err = e.deliver(ctx, log, chatID, res)
	})
	return err
}

func (e *Engine) deliver(ctx context.Context, log *slog.Logger, chatID int64, res content.Result) error {
	var owned scratch.Set
	for _, f := range res.Files() {
		owned.Track(f)
	}
	defer owned.Cleanup()

	if err := e.sendText(ctx, chatID, res.Title); err != nil {
		e.abort(ctx, log, chatID, "title", err)
		return fmt.Errorf("send title: %w", err)
	}

	for i, b := range res.Blocks {
		if b.Text != "" {
			if err := e.sendText(ctx, chatID, content.Escape(b.Text)); err != nil {
				e.abort(ctx, log, chatID, fmt.Sprintf("text of block %d", i+1), err)
				return fmt.Errorf("send text block %d: %w", i+1, err)
			}
		}
		for _, u := range b.Images {
			if err := e.chat.SendPhoto(ctx, chatID, u); err != nil {
				e.itemFailed(ctx, log, chatID, "photo", u, err)
			}
		}
		for _, u := range b.VideoURLs {
			if err := e.chat.SendVideoURL(ctx, chatID, u); err != nil {
				e.itemFailed(ctx, log, chatID, "video_url", u, err)
			}
		}
		for j, p := range b.VideoFiles {
			err := e.chat.SendVideoFile(ctx, chatID, p)
			owned.Release(p)
			_ = scratch.Remove(p)
			if err != nil {
				e.itemFailed(ctx, log, chatID, "video_file", fileLabel(j, len(b.VideoFiles), i), err)
			}
		}
	}
	log.Debug("delivery complete", slog.Int("blocks", len(res.Blocks)))
	return nil
}

// Notify sends a plain notice with the text retry policy.
func (e *Engine) Notify(ctx context.Context, chatID int64, msg string) error {
	return e.sendText(ctx, chatID, content.Escape(msg))
}

// itemFailed logs and reports one isolated media failure.
func (e *Engine) itemFailed(ctx context.Context, log *slog.Logger, chatID int64, kind, item string, err error) {
	telemetry.MediaSendFailed(kind)
	log.Warn("media send failed", slog.String("kind", kind), slog.String("item", item), slog.Any("err", err))
	if nerr := e.Notify(ctx, chatID, fmt.Sprintf("Failed to send %s: %s", mediaNoun(kind), item)); nerr != nil {
		log.Warn("failure notice not sent", slog.Any("err", nerr))
	}
}

// fileLabel names a local video by position, since its scratch path means
// nothing to chat members: "video 2 of block 3", or "video in block 3" when
// the block holds a single file.
func fileLabel(idx, count, block int) string {
	if count == 1 {
		return fmt.Sprintf("video in block %d", block+1)
	}
	return fmt.Sprintf("video %d of block %d", idx+1, block+1)
}

// abort sends the single job-level notice after an unrecoverable text failure.
func (e *Engine) abort(ctx context.Context, log *slog.Logger, chatID int64, what string, err error) {
	log.Error("delivery aborted", slog.String("at", what), slog.Any("err", err))
	if nerr := e.Notify(ctx, chatID, "Error sending content: "+err.Error()); nerr != nil {
		log.Warn("error notice not sent", slog.Any("err", nerr))
	}
}

// sendText sends a MarkupV2 message with previews off, retrying transient
// failures with doubling delays.
func (e *Engine) sendText(ctx context.Context, chatID int64, text string) error {
	opts := TextOptions{Markup: true, DisablePreview: true}
	delay := e.baseDelay
	var err error
	for attempt := 1; attempt <= e.attempts; attempt++ {
		err = e.chat.SendText(ctx, chatID, text, opts)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == e.attempts {
			break
		}
		telemetry.SendRetried()
		e.logger.Warn("text send failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("err", err))
		if serr := e.sleep(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
	}
	return err
}

func mediaNoun(kind string) string {
	if kind == "photo" {
		return "image"
	}
	return "video"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
