// Package pipeline runs one job per incoming chat message: classify the link,
// extract its content, deliver it, and delete the original message when
// everything was communicated.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/links"
	"github.com/onnwee/memerelay/scratch"
	"github.com/onnwee/memerelay/telemetry"
)

// Message is an incoming chat text message.
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
	User      content.User
}

// Extractor produces content for a classified link.
type Extractor interface {
	Extract(ctx context.Context, k content.Kind, req content.Request) (content.Result, error)
}

// Deliverer sends results and notices to a chat.
type Deliverer interface {
	// Deliver reports an error only after it has notified the chat itself.
	Deliver(ctx context.Context, chatID int64, res content.Result) error
	Notify(ctx context.Context, chatID int64, msg string) error
}

// Deleter removes chat messages.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Pipeline wires classification, extraction and delivery together.
type Pipeline struct {
	classifier *links.Classifier
	extract    Extractor
	deliver    Deliverer
	chat       Deleter
	limiter    *Limiter
	logger     *slog.Logger
}

// Options configures a Pipeline.
type Options struct {
	MaxJobs int
	Logger  *slog.Logger
}

// New returns a Pipeline.
func New(c *links.Classifier, ex Extractor, d Deliverer, chat Deleter, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		classifier: c,
		extract:    ex,
		deliver:    d,
		chat:       chat,
		limiter:    NewLimiter(opts.MaxJobs),
		logger:     opts.Logger.With(slog.String("component", "pipeline")),
	}
}

// Handle processes one message. Text without a supported, enabled link is
// ignored. Every failure reaching this level has produced exactly one notice
// in the chat and left the original message in place.
func (p *Pipeline) Handle(ctx context.Context, msg Message) (err error) {
	m, ok := p.classifier.Match(msg.Text)
	if !ok {
		return nil
	}
	platform := m.Kind.String()
	telemetry.LinkReceived(platform)

	corr := uuid.NewString()
	ctx = telemetry.WithCorrelation(ctx, corr)
	log := p.logger.With(
		slog.String("corr", corr),
		slog.String("platform", platform),
		slog.Int64("chat_id", msg.ChatID),
	)
	ctx, span := telemetry.StartSpan(ctx, "pipeline", "pipeline.job",
		telemetry.PlatformAttr(platform), telemetry.ChatAttr(msg.ChatID))
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetSpanSuccess(span)
		}
		span.End()
	}()

	if !p.limiter.Acquire(ctx) {
		return ctx.Err()
	}
	defer p.limiter.Release()
	done := telemetry.JobStarted()
	defer done()

	log.Info("job started", slog.String("url", m.URL))
	var blocks int
	took := telemetry.TimeFunc(telemetry.JobDuration, func() {
		blocks, err = p.run(ctx, log, msg, m)
	})
	if err != nil {
		return err
	}
	log.Info("job complete", slog.Int("blocks", blocks), slog.Duration("took", took))
	return nil
}

// run extracts, delivers and deletes the original message, returning the
// number of delivered blocks.
func (p *Pipeline) run(ctx context.Context, log *slog.Logger, msg Message, m links.Match) (int, error) {
	platform := m.Kind.String()

	var res content.Result
	var err error
	telemetry.TimeFunc(telemetry.ExtractObserver(platform), func() {
		res, err = p.extract.Extract(ctx, m.Kind, content.Request{URL: m.URL, User: msg.User})
	})
	if err != nil {
		for _, f := range res.Files() {
			_ = scratch.Remove(f)
		}
		telemetry.JobFailed(platform, "extract")
		log.Error("extraction failed", slog.String("url", m.URL), slog.Any("err", err))
		if nerr := p.deliver.Notify(ctx, msg.ChatID, "Failed to process link\n"+err.Error()); nerr != nil {
			log.Warn("failure notice not sent", slog.Any("err", nerr))
		}
		return 0, err
	}

	if err := p.deliver.Deliver(ctx, msg.ChatID, res); err != nil {
		telemetry.JobFailed(platform, "deliver")
		log.Error("delivery failed; keeping original message", slog.Any("err", err))
		return 0, err
	}

	if err := p.chat.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		log.Warn("delete original message failed", slog.Int("message_id", msg.MessageID), slog.Any("err", err))
	}
	telemetry.JobSucceeded(platform)
	return len(res.Blocks), nil
}

// Serve handles messages from in until it is closed or ctx ends, one
// goroutine per message, then waits for in-flight jobs.
func (p *Pipeline) Serve(ctx context.Context, in <-chan Message) error {
	var g errgroup.Group
	defer func() { _ = g.Wait() }()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			g.Go(func() error {
				// job errors were already reported to the chat
				_ = p.Handle(ctx, msg)
				return nil
			})
		}
	}
}
