// Package telegram adapts the Telegram Bot API to the chat capability used by
// the delivery engine, and turns incoming updates into pipeline messages.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/onnwee/memerelay/delivery"
	"github.com/onnwee/memerelay/pipeline"
	"github.com/onnwee/memerelay/scratch"
	"github.com/onnwee/memerelay/telemetry"
)

// Downloader fetches remote videos into the scratch directory before upload.
type Downloader interface {
	Download(ctx context.Context, url, dst string) (int64, error)
}

// Options configures a Bot.
type Options struct {
	// Endpoint is the Bot API URL format (default tgbotapi.APIEndpoint).
	Endpoint string
	// Timeout bounds each API call, uploads included (default 120s).
	Timeout time.Duration
	// PollTimeout is the long-polling timeout in seconds (default 60).
	PollTimeout int
	Logger      *slog.Logger
}

// Bot is the Telegram chat capability.
type Bot struct {
	api    *tgbotapi.BotAPI
	dl     Downloader
	dir    *scratch.Dir
	poll   int
	logger *slog.Logger
}

var _ delivery.Chat = (*Bot)(nil)

// New authenticates with token and returns a Bot. Remote videos are
// downloaded through dl into dir and uploaded from disk.
func New(token string, dl Downloader, dir *scratch.Dir, opts Options) (*Bot, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = tgbotapi.APIEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With(slog.String("component", "telegram"))
	if err := tgbotapi.SetLogger(botLogger{logger}); err != nil {
		return nil, err
	}
	// long polling holds the request open for PollTimeout seconds
	client := &http.Client{Timeout: opts.Timeout + time.Duration(opts.PollTimeout)*time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(token, opts.Endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger.Info("telegram bot authorized", slog.String("username", api.Self.UserName))
	return &Bot{api: api, dl: dl, dir: dir, poll: opts.PollTimeout, logger: logger}, nil
}

// Username is the bot's handle.
func (b *Bot) Username() string { return b.api.Self.UserName }

func (b *Bot) SendText(ctx context.Context, chatID int64, text string, opts delivery.TextOptions) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if opts.Markup {
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}
	msg.DisableWebPagePreview = opts.DisablePreview
	return b.send(ctx, msg)
}

func (b *Bot) SendPhoto(ctx context.Context, chatID int64, url string) error {
	return b.send(ctx, tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url)))
}

// SendVideoURL downloads url into the scratch directory and uploads it, so
// that hosts Telegram cannot reach itself still work. The file is removed
// after the attempt.
func (b *Bot) SendVideoURL(ctx context.Context, chatID int64, url string) error {
	path := b.dir.Path("video", ".mp4")
	defer func() { _ = scratch.Remove(path) }()
	if _, err := b.dl.Download(ctx, url, path); err != nil {
		return fmt.Errorf("download video: %w", err)
	}
	return b.SendVideoFile(ctx, chatID, path)
}

func (b *Bot) SendVideoFile(ctx context.Context, chatID int64, path string) error {
	v := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	v.SupportsStreaming = true
	return b.send(ctx, v)
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return classify(err)
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.api.Send(c)
	return classify(err)
}

// classify marks rate limiting and server-side failures as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500) {
		return fmt.Errorf("%w: %s", delivery.ErrTransient, apiErr.Message)
	}
	return err
}

// Messages streams incoming text messages until ctx ends. Commands, edits
// and non-text messages are skipped.
func (b *Bot) Messages(ctx context.Context) <-chan pipeline.Message {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.poll
	u.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(u)

	out := make(chan pipeline.Message)
	go func() {
		defer close(out)
		defer b.api.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := toMessage(upd)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func toMessage(upd tgbotapi.Update) (pipeline.Message, bool) {
	m := upd.Message
	if m == nil || m.Chat == nil || m.Text == "" || m.IsCommand() {
		return pipeline.Message{}, false
	}
	msg := pipeline.Message{ChatID: m.Chat.ID, MessageID: m.MessageID, Text: m.Text}
	if m.From != nil {
		msg.User.ID = m.From.ID
		msg.User.DisplayName = strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
	}
	return msg, true
}

// botLogger routes the library's own log lines to slog.
type botLogger struct{ l *slog.Logger }

func (b botLogger) Println(v ...interface{}) {
	b.l.Debug(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (b botLogger) Printf(format string, v ...interface{}) {
	b.l.Debug(fmt.Sprintf(format, v...))
}

// Ping checks the token still authenticates, for readiness probes.
func (b *Bot) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.api.GetMe()
	if err != nil {
		telemetry.LoggerWithCorr(ctx).Warn("telegram ping failed", slog.Any("err", err))
	}
	return err
}
